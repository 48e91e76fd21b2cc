package api

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/taskboard/domain/apperr"
	domaintask "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/guest"
	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/project"
	"github.com/example/taskboard/modules/suggest"
	"github.com/example/taskboard/modules/task"
	"github.com/gofiber/fiber/v2"
)

const maxAcceptedSuggestions = 3

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth          auth.AuthPort
	tasks         task.TaskPort
	projects      project.ProjectPort
	suggestions   suggest.SuggestPort
	notifications notification.NotificationPort
	sessions      SessionManager
	guests        *guest.Registry
	aiTimeout     time.Duration
}

// Deps groups the ports and components the handlers call into.
type Deps struct {
	Auth          auth.AuthPort
	Tasks         task.TaskPort
	Projects      project.ProjectPort
	Suggestions   suggest.SuggestPort
	Notifications notification.NotificationPort
	Sessions      SessionManager
	Guests        *guest.Registry
	AITimeout     time.Duration
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		auth:          d.Auth,
		tasks:         d.Tasks,
		projects:      d.Projects,
		suggestions:   d.Suggestions,
		notifications: d.Notifications,
		sessions:      d.Sessions,
		guests:        d.Guests,
		aiTimeout:     d.AITimeout,
	}
}

func badBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
}

// Register handles POST /auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.auth.Register(c.UserContext(), auth.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /auth/login. It returns a token pair and also signs the session in.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Email == "" || req.Password == "" {
		return respond(c, fiber.StatusBadRequest, "validation_error", "Email and password are required")
	}

	resp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.sessions.SignIn(c, user.Claims{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Name:   resp.User.Name,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(LoginResponse{User: resp.User, Tokens: resp.Tokens})
}

// Refresh handles POST /auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.RefreshToken == "" {
		return respond(c, fiber.StatusBadRequest, "validation_error", "Refresh token is required")
	}

	tokens, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tokens)
}

// Logout handles POST /auth/logout. The guest list of the session goes with it.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	id, err := h.sessions.SignOut(c)
	if err != nil {
		return writeError(c, err)
	}
	h.guests.Drop(id)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *Handlers) Me(c *fiber.Ctx) error {
	resp, err := h.auth.GetUser(c.UserContext(), caller(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Users handles GET /users.
func (h *Handlers) Users(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext(), caller(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	if users == nil {
		users = []user.Summary{}
	}
	return c.JSON(UsersResponse{Users: users})
}

// CreateTask handles POST /tasks. Without assignees the caller is assigned.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "validation_error", "Invalid deadline")
	}

	resp, err := h.tasks.CreateTask(c.UserContext(), &task.CreateTaskInput{
		CreatorID:   caller(c).UserID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeIDs: req.AssignedToUserIDs,
		Deadline:    deadline,
		ProjectID:   optional(req.ProjectID),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AssignTask handles POST /assign. At least one assignee is required.
func (h *Handlers) AssignTask(c *fiber.Ctx) error {
	var req AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		return respond(c, fiber.StatusBadRequest, "validation_error", "Invalid deadline")
	}

	resp, err := h.tasks.AssignTask(c.UserContext(), &task.CreateTaskInput{
		CreatorID:   caller(c).UserID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeIDs: req.AssignedTo,
		Deadline:    deadline,
		ProjectID:   optional(req.ProjectID),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTasks handles GET /tasks?view=assigned_to_me|assigned_by_me.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	me := caller(c)
	resp, err := h.tasks.ListTasks(c.UserContext(), me.UserID, me.Email, domaintask.View(c.Query("view")))
	if err != nil {
		return writeError(c, err)
	}
	if resp.Tasks == nil {
		resp.Tasks = []task.TaskResponse{}
	}
	return c.JSON(resp.Tasks)
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	resp, err := h.tasks.GetTask(c.UserContext(), caller(c).UserID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// UpdateTask handles PATCH /tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	patch := task.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(*req.Deadline)
		if !ok {
			return respond(c, fiber.StatusBadRequest, "validation_error", "Invalid deadline")
		}
		patch.Deadline = deadline
		patch.ClearDeadline = deadline == nil
	}

	resp, err := h.tasks.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		UserID: caller(c).UserID,
		TaskID: c.Params("id"),
		Patch:  patch,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ToggleTask handles POST /tasks/:id/toggle.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	resp, err := h.tasks.ToggleTask(c.UserContext(), caller(c).UserID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.DeleteTask(c.UserContext(), caller(c).UserID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateProject handles POST /projects.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.projects.CreateProject(c.UserContext(), &project.CreateProjectRequest{
		OwnerID:     caller(c).UserID,
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Status:      deref(req.Status),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListProjects handles GET /projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projects.ListProjects(c.UserContext(), caller(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	if projects == nil {
		projects = []project.ProjectResponse{}
	}
	return c.JSON(project.ListProjectsResponse{Projects: projects})
}

// GetProject handles GET /projects/:id.
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	resp, err := h.projects.GetProject(c.UserContext(), caller(c).UserID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// UpdateProject handles PUT /projects/:id.
func (h *Handlers) UpdateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.projects.UpdateProject(c.UserContext(), &project.UpdateProjectRequest{
		OwnerID:     caller(c).UserID,
		ProjectID:   c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// DeleteProject handles DELETE /projects/:id.
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	if err := h.projects.DeleteProject(c.UserContext(), caller(c).UserID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Suggest handles POST /ai/suggest. The configured timeout bounds the upstream call.
func (h *Handlers) Suggest(c *fiber.Ctx) error {
	var req SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	ctx := c.UserContext()
	if h.aiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.aiTimeout)
		defer cancel()
	}

	suggestions, err := h.suggestions.Suggest(ctx, req.Keyword)
	if err != nil {
		return writeError(c, err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(suggestions)
}

// AcceptSuggestions handles POST /ai/suggestions/accept, creating self-assigned tasks.
func (h *Handlers) AcceptSuggestions(c *fiber.Ctx) error {
	var req AcceptSuggestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if len(req.Titles) == 0 || len(req.Titles) > maxAcceptedSuggestions {
		return writeError(c, apperr.Validation("select between 1 and %d suggestions", maxAcceptedSuggestions))
	}

	// All titles are checked before the first task is stored.
	titles := make([]string, 0, len(req.Titles))
	for _, title := range req.Titles {
		title = strings.TrimSpace(title)
		if title == "" {
			return writeError(c, apperr.Validation("suggestion titles must not be empty"))
		}
		if utf8.RuneCountInString(title) > domaintask.MaxTitleLength {
			return writeError(c, apperr.Validation("title must be at most %d characters", domaintask.MaxTitleLength))
		}
		titles = append(titles, title)
	}

	me := caller(c)
	created := make([]task.TaskResponse, 0, len(titles))
	for _, title := range titles {
		resp, err := h.tasks.CreateTask(c.UserContext(), &task.CreateTaskInput{
			CreatorID: me.UserID,
			Title:     title,
		})
		if err != nil {
			return writeError(c, err)
		}
		created = append(created, *resp)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Dashboard handles GET /dashboard.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	me := caller(c)

	projectCount, err := h.projects.CountProjects(c.UserContext(), me.UserID)
	if err != nil {
		return writeError(c, err)
	}
	stats, err := h.tasks.Stats(c.UserContext(), me.UserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(DashboardResponse{
		ProjectCount:   projectCount,
		TaskCount:      stats.Total,
		PendingCount:   stats.Pending,
		CompletedCount: stats.Completed,
	})
}

// Notifications handles GET /notifications.
func (h *Handlers) Notifications(c *fiber.Ctx) error {
	items, err := h.notifications.List(c.UserContext(), caller(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []notification.Notification{}
	}
	return c.JSON(notification.ListResponse{Notifications: items})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
