package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/taskboard/config"
	"github.com/example/taskboard/domain/apperr"
	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/database"
	"github.com/example/taskboard/modules/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockProjects implements ProjectChecker for testing.
type mockProjects struct {
	owned map[string]string // project id -> owner id
}

func (m *mockProjects) GetProject(_ context.Context, ownerID, projectID string) (*project.ProjectResponse, error) {
	if owner, ok := m.owned[projectID]; ok && owner == ownerID {
		return &project.ProjectResponse{ID: projectID, OwnerID: ownerID}, nil
	}
	return nil, apperr.NotFound("project")
}

var (
	alice = user.User{ID: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	bob   = user.User{ID: "bob", Name: "Bob", Email: "bob@example.com", PasswordHash: "x"}
	carol = user.User{ID: "carol", Name: "Carol", Email: "carol@example.com", PasswordHash: "x"}
	dave  = user.User{ID: "dave", Name: "Dave", Email: "dave@example.com", PasswordHash: "x"}
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for _, u := range []user.User{alice, bob, carol, dave} {
		u := u
		require.NoError(t, db.Create(&u).Error)
	}

	projects := &mockProjects{owned: map[string]string{"alice-project": alice.ID}}
	return NewService(NewRepository(db), projects, nil), db
}

func countTasks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.Task{}).Count(&n).Error)
	return n
}

func assigneeIDs(t *domain.Task) []string {
	ids := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestService_CreateSelfAssignsByDefault(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTaskInput{CreatorID: alice.ID, Title: "  Write report "})
	require.NoError(t, err)
	assert.Equal(t, "Write report", created.Title)
	assert.False(t, created.Completed)
	assert.Equal(t, alice.ID, created.Creator.ID)
	assert.Equal(t, "Alice", created.Creator.Name)
	assert.Equal(t, []string{alice.ID}, assigneeIDs(created))

	toMe, err := svc.List(ctx, alice.ID, alice.Email, domain.ViewAssignedToMe)
	require.NoError(t, err)
	byMe, err := svc.List(ctx, alice.ID, alice.Email, domain.ViewAssignedByMe)
	require.NoError(t, err)
	assert.Len(t, toMe, 1, "self-assigned task is assigned to me")
	assert.Len(t, byMe, 1, "self-assigned task is assigned by me")
}

func TestService_CreateAssignedValidation(t *testing.T) {
	tests := []struct {
		name string
		in   CreateTaskInput
	}{
		{name: "empty title", in: CreateTaskInput{CreatorID: alice.ID, Title: "   ", AssigneeIDs: []string{bob.ID}}},
		{name: "no assignees", in: CreateTaskInput{CreatorID: alice.ID, Title: "Do it"}},
		{name: "blank assignee ids", in: CreateTaskInput{CreatorID: alice.ID, Title: "Do it", AssigneeIDs: []string{" ", ""}}},
		{name: "unknown assignee", in: CreateTaskInput{CreatorID: alice.ID, Title: "Do it", AssigneeIDs: []string{bob.ID, "ghost"}}},
		{name: "title too long", in: CreateTaskInput{CreatorID: alice.ID, Title: strings.Repeat("x", domain.MaxTitleLength+1), AssigneeIDs: []string{bob.ID}}},
		{name: "description too long", in: CreateTaskInput{CreatorID: alice.ID, Title: "Do it", Description: strings.Repeat("d", domain.MaxDescriptionLength+1), AssigneeIDs: []string{bob.ID}}},
		{name: "project not owned", in: CreateTaskInput{CreatorID: bob.ID, Title: "Do it", AssigneeIDs: []string{alice.ID}, ProjectID: strPtr("alice-project")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setupTestService(t)

			_, err := svc.CreateAssigned(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.ErrValidation), "got %v", err)
			assert.Equal(t, int64(0), countTasks(t, db), "nothing is persisted")
		})
	}
}

func TestService_CreateAssignedVisibility(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAssigned(ctx, CreateTaskInput{
		CreatorID:   alice.ID,
		Title:       "Review PR",
		AssigneeIDs: []string{carol.ID, bob.ID, bob.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID, carol.ID}, assigneeIDs(created), "deduplicated, ordered by name")

	tests := []struct {
		name string
		u    user.User
		toMe int
		byMe int
		all  int
	}{
		{name: "creator", u: alice, toMe: 0, byMe: 1, all: 1},
		{name: "assignee bob", u: bob, toMe: 1, byMe: 0, all: 1},
		{name: "assignee carol", u: carol, toMe: 1, byMe: 0, all: 1},
		{name: "unrelated", u: dave, toMe: 0, byMe: 0, all: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toMe, err := svc.List(ctx, tt.u.ID, tt.u.Email, domain.ViewAssignedToMe)
			require.NoError(t, err)
			byMe, err := svc.List(ctx, tt.u.ID, tt.u.Email, domain.ViewAssignedByMe)
			require.NoError(t, err)
			all, err := svc.List(ctx, tt.u.ID, tt.u.Email, domain.ViewAll)
			require.NoError(t, err)

			assert.Len(t, toMe, tt.toMe)
			assert.Len(t, byMe, tt.byMe)
			assert.Len(t, all, tt.all)
		})
	}

	_, err = svc.Get(ctx, dave.ID, created.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound), "unrelated user gets not found")
}

func TestService_CreateWithOwnedProject(t *testing.T) {
	svc, _ := setupTestService(t)

	created, err := svc.Create(context.Background(), CreateTaskInput{
		CreatorID: alice.ID,
		Title:     "Plan",
		ProjectID: strPtr("alice-project"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.ProjectID)
	assert.Equal(t, "alice-project", *created.ProjectID)
}

func TestService_ListNewestFirst(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	repo := NewRepository(db)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(ctx, &domain.Task{
			ID:        id,
			Title:     id,
			CreatorID: alice.ID,
			Assignees: []user.User{bob},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}))
	}

	tasks, err := svc.List(ctx, bob.ID, bob.Email, domain.ViewAll)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "new", tasks[0].ID)
	assert.Equal(t, "mid", tasks[1].ID)
	assert.Equal(t, "old", tasks[2].ID)
	assert.Equal(t, "Alice", tasks[0].Creator.Name, "creator is expanded")
}

func TestService_ListRejectsUnknownView(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.List(context.Background(), alice.ID, alice.Email, domain.View("everything"))
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestService_ToggleNegatesPersistedValue(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAssigned(ctx, CreateTaskInput{CreatorID: alice.ID, Title: "Flip me", AssigneeIDs: []string{bob.ID}})
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, bob.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	var stored domain.Task
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.True(t, stored.Completed)

	toggled, err = svc.Toggle(ctx, alice.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed, "toggling twice restores the original value")
}

func TestService_ToggleByUnrelatedUser(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTaskInput{CreatorID: alice.ID, Title: "Private"})
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, dave.ID, created.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))

	var stored domain.Task
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.Completed, "unchanged")

	_, err = svc.Toggle(ctx, alice.ID, "missing")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestService_Update(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTaskInput{CreatorID: alice.ID, Title: "Draft", Description: "old"})
	require.NoError(t, err)

	done := true
	deadline := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, alice.ID, created.ID, TaskPatch{
		Title:     strPtr("Final"),
		Completed: &done,
		Deadline:  &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "old", updated.Description)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.Deadline)
	assert.True(t, deadline.Equal(*updated.Deadline))

	cleared, err := svc.Update(ctx, alice.ID, created.ID, TaskPatch{ClearDeadline: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Deadline)

	_, err = svc.Update(ctx, alice.ID, created.ID, TaskPatch{Title: strPtr(" ")})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))

	_, err = svc.Update(ctx, alice.ID, created.ID, TaskPatch{Description: strPtr(strings.Repeat("d", domain.MaxDescriptionLength+1))})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))

	_, err = svc.Update(ctx, dave.ID, created.ID, TaskPatch{Title: strPtr("Mine now")})
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestService_Delete(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAssigned(ctx, CreateTaskInput{CreatorID: alice.ID, Title: "Remove me", AssigneeIDs: []string{bob.ID}})
	require.NoError(t, err)

	err = svc.Delete(ctx, dave.ID, created.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, bob.ID, created.ID), "assignees may delete")

	_, err = svc.Get(ctx, alice.ID, created.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))

	var links int64
	require.NoError(t, db.Table("task_assignees").Where("task_id = ?", created.ID).Count(&links).Error)
	assert.Equal(t, int64(0), links)

	err = svc.Delete(ctx, alice.ID, created.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestService_Stats(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateTaskInput{CreatorID: alice.ID, Title: "one"})
	require.NoError(t, err)
	_, err = svc.CreateAssigned(ctx, CreateTaskInput{CreatorID: bob.ID, Title: "two", AssigneeIDs: []string{alice.ID}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTaskInput{CreatorID: carol.ID, Title: "not mine"})
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, alice.ID, first.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, StatsResponse{Total: 2, Pending: 1, Completed: 1}, stats)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueIDs([]string{" a", "b", "a", ""}))
	assert.Empty(t, uniqueIDs(nil))
}

func strPtr(s string) *string { return &s }
