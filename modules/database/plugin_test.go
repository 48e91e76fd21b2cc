package database

import (
	"context"
	"testing"

	"github.com/example/taskboard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	for _, table := range []string{"users", "projects", "tasks", "task_assignees"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestPluginModule_Lifecycle(t *testing.T) {
	m := NewPluginModule(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	ctx := context.Background()

	assert.Equal(t, "database", m.Name())
	assert.False(t, m.Health(ctx).Healthy, "unhealthy before start")
	assert.Nil(t, m.DB())

	require.NoError(t, m.Start(ctx))
	assert.NotNil(t, m.DB())

	status := m.Health(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, "sqlite", status.Details["driver"])

	require.NoError(t, m.Stop(ctx))
}
