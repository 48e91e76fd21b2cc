package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/modules/api"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/database"
	"github.com/example/taskboard/modules/guest"
	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/project"
	"github.com/example/taskboard/modules/session"
	"github.com/example/taskboard/modules/suggest"
	"github.com/example/taskboard/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Taskboard ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Plugins start before and stop after every module.
	if err := app.RegisterPlugin(database.NewPluginModule(cfg.Database), "database"); err != nil {
		log.Fatalf("Failed to register database plugin: %v", err)
	}
	if err := app.RegisterPlugin(session.NewPluginModule(cfg.Session), "session"); err != nil {
		log.Fatalf("Failed to register session plugin: %v", err)
	}
	if err := app.RegisterPlugin(guest.NewPluginModule(cfg.Session.Expiration), "guest"); err != nil {
		log.Fatalf("Failed to register guest plugin: %v", err)
	}

	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule(cfg.Auth))
	app.Register(project.NewModule())
	app.Register(notification.NewModule())
	app.Register(task.NewModule()) // Depends on project
	app.Register(suggest.NewModule(cfg.AI))
	app.Register(api.NewModule(*cfg)) // Depends on all of the above

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  Database: %s", cfg.Database.Driver)
	if cfg.Session.RedisAddr != "" {
		log.Printf("  Sessions: redis (%s)", cfg.Session.RedisAddr)
	} else {
		log.Println("  Sessions: in-memory")
	}
	if cfg.AI.APIKey == "" {
		log.Println("  Suggestions: disabled (set TASKBOARD_AI_API_KEY or GEMINI_API_KEY)")
	}
	log.Println("")
	log.Printf("HTTP endpoints (%s):", cfg.HTTP.Addr)
	log.Println("  GET    /                             - Guest task list (no sign-in)")
	log.Println("  GET    /health                       - Health check")
	log.Println("  POST   /api/v1/auth/register         - Register a new user")
	log.Println("  POST   /api/v1/auth/login            - Sign in (session cookie + tokens)")
	log.Println("  POST   /api/v1/auth/logout           - Sign out and clear the guest list")
	log.Println("  GET    /api/v1/tasks?view=...        - Tasks you created or are assigned")
	log.Println("  POST   /api/v1/assign                - Create a task for other users")
	log.Println("  POST   /api/v1/ai/suggest            - Suggest tasks from a keyword")
	log.Println("  GET    /api/v1/dashboard             - Project and task counts")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
