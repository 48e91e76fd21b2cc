package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/database"
	"github.com/example/taskboard/modules/guest"
	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/project"
	"github.com/example/taskboard/modules/session"
	"github.com/example/taskboard/modules/suggest"
	"github.com/example/taskboard/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	cfg config.Config
	app *fiber.App

	authAdapter         auth.AuthPort
	taskAdapter         task.TaskPort
	projectAdapter      project.ProjectPort
	suggestAdapter      suggest.SuggestPort
	notificationAdapter notification.NotificationPort

	database *database.PluginModule
	session  *session.PluginModule
	guest    *guest.PluginModule
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.UsePluginModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg config.Config) *APIModule {
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "project", "task", "suggest", "notification"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "project":
		m.projectAdapter = project.NewProjectAdapter(container)
	case "task":
		m.taskAdapter = task.NewTaskAdapter(container)
	case "suggest":
		m.suggestAdapter = suggest.NewSuggestAdapter(container)
	case "notification":
		m.notificationAdapter = notification.NewNotificationAdapter(container)
	}
}

// SetPlugin receives the database, session and guest plugins.
func (m *APIModule) SetPlugin(alias string, plugin mono.PluginModule) {
	switch p := plugin.(type) {
	case *database.PluginModule:
		m.database = p
	case *session.PluginModule:
		m.session = p
	case *guest.PluginModule:
		m.guest = p
	default:
		log.Printf("[api] Ignoring plugin %s (%T)", alias, plugin)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	switch {
	case m.authAdapter == nil:
		return fmt.Errorf("auth dependency not set")
	case m.taskAdapter == nil:
		return fmt.Errorf("task dependency not set")
	case m.projectAdapter == nil:
		return fmt.Errorf("project dependency not set")
	case m.suggestAdapter == nil:
		return fmt.Errorf("suggest dependency not set")
	case m.notificationAdapter == nil:
		return fmt.Errorf("notification dependency not set")
	case m.session == nil || m.session.Manager() == nil:
		return fmt.Errorf("required plugin 'session' not registered")
	case m.guest == nil:
		return fmt.Errorf("required plugin 'guest' not registered")
	}

	sessions := m.session.Manager()
	handlers := NewHandlers(Deps{
		Auth:          m.authAdapter,
		Tasks:         m.taskAdapter,
		Projects:      m.projectAdapter,
		Suggestions:   m.suggestAdapter,
		Notifications: m.notificationAdapter,
		Sessions:      sessions,
		Guests:        m.guest.Registry(),
		AITimeout:     m.cfg.AI.Timeout,
	})
	guestHandler := guest.NewHandler(m.guest.Registry(), sessions)

	m.app = newApp()
	m.app.Get("/health", m.healthHandler)
	mountRoutes(m.app, handlers, guestHandler, m.authAdapter)

	addr := m.cfg.HTTP.Addr
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.HTTP.Addr,
		},
	}
}

// healthHandler handles GET /health, folding in the health of the shared plugins.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := map[string]mono.HealthStatus{"api": m.Health(ctx)}
	if m.database != nil {
		checks["database"] = m.database.Health(ctx)
	}
	if m.session != nil {
		checks["session"] = m.session.Health(ctx)
	}
	if m.guest != nil {
		checks["guest"] = m.guest.Health(ctx)
	}

	status, code := "healthy", fiber.StatusOK
	details := make(map[string]any, len(checks))
	for name, h := range checks {
		details[name] = h
		if !h.Healthy {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(HealthResponse{Status: status, Details: details})
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())
	return app
}

// mountRoutes configures all API routes.
func mountRoutes(app *fiber.App, h *Handlers, guests *guest.Handler, tokens TokenValidator) {
	guests.MountPage(app)

	v1 := app.Group("/api/v1")
	guests.MountAPI(v1)

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)
	authRoutes.Post("/refresh", h.Refresh)
	authRoutes.Post("/logout", h.Logout)

	protected := v1.Group("", RequireIdentity(h.sessions, tokens))
	protected.Get("/auth/me", h.Me)
	protected.Get("/users", h.Users)

	tasks := protected.Group("/tasks")
	tasks.Post("/", h.CreateTask)
	tasks.Get("/", h.ListTasks)
	tasks.Get("/:id", h.GetTask)
	tasks.Patch("/:id", h.UpdateTask)
	tasks.Post("/:id/toggle", h.ToggleTask)
	tasks.Delete("/:id", h.DeleteTask)
	protected.Post("/assign", h.AssignTask)

	projects := protected.Group("/projects")
	projects.Post("/", h.CreateProject)
	projects.Get("/", h.ListProjects)
	projects.Get("/:id", h.GetProject)
	projects.Put("/:id", h.UpdateProject)
	projects.Delete("/:id", h.DeleteProject)

	protected.Post("/ai/suggest", h.Suggest)
	protected.Post("/ai/suggestions/accept", h.AcceptSuggestions)
	protected.Get("/dashboard", h.Dashboard)
	protected.Get("/notifications", h.Notifications)
}
