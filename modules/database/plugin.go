// Package database provides the shared GORM connection as a mono plugin.
package database

import (
	"context"
	"fmt"
	"log"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/domain/project"
	"github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PluginModule owns the database connection shared by the auth, project and task modules.
// Plugins start first and stop last, so the connection outlives every consumer.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.DatabaseConfig
	db        *gorm.DB
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a database plugin for the given configuration.
func NewPluginModule(cfg config.DatabaseConfig) *PluginModule {
	return &PluginModule{cfg: cfg}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "database"
}

// Start opens the connection and migrates the schema.
func (m *PluginModule) Start(_ context.Context) error {
	db, err := Open(m.cfg)
	if err != nil {
		return err
	}
	m.db = db

	log.Printf("[database] Connected (driver: %s)", m.cfg.Driver)
	log.Println("[database] Plugin started")
	return nil
}

// Stop closes the underlying connection pool.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("[database] Error closing connection: %v", err)
				return fmt.Errorf("failed to close connection: %w", err)
			}
		}
	}
	log.Println("[database] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// DB returns the shared connection. It is nil until Start has run.
func (m *PluginModule) DB() *gorm.DB {
	return m.db
}

// Health pings the database.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database error: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.Driver,
		},
	}
}

// Open connects with the configured dialector and migrates all tables.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every sqlite connection to :memory: gets its own empty database.
	if cfg.DSN == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the users, projects, tasks and task_assignees tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.User{}, &project.Project{}, &task.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
