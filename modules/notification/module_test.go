package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/example/taskboard/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTaskCreated_NotifiesAssigneesExceptCreator(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID:      "t1",
		Title:       "Write report",
		CreatorID:   "alice",
		CreatorName: "Alice",
		AssigneeIDs: []string{"alice", "bob", "carol"},
		CreatedAt:   time.Now(),
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, m.Notifications("alice"))
	for _, id := range []string{"bob", "carol"} {
		got := m.Notifications(id)
		require.Len(t, got, 1)
		assert.Equal(t, "task_assigned", got[0].Type)
		assert.Equal(t, "t1", got[0].TaskID)
		assert.Equal(t, `Alice assigned you "Write report"`, got[0].Message)
		assert.NotEmpty(t, got[0].ID)
	}
}

func TestHandleTaskCreated_SelfAssignedIsSilent(t *testing.T) {
	m := NewModule()

	require.NoError(t, m.handleTaskCreated(context.Background(), events.TaskCreatedEvent{
		TaskID: "t1", Title: "Mine", CreatorID: "alice", AssigneeIDs: []string{"alice"},
	}, nil))

	assert.Empty(t, m.Notifications("alice"))
}

func TestHandleTaskToggled(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	require.NoError(t, m.handleTaskToggled(ctx, events.TaskToggledEvent{
		TaskID: "t1", Title: "Ship", CreatorID: "alice", ActorID: "alice", Completed: true,
	}, nil))
	assert.Empty(t, m.Notifications("alice"), "own toggle is not notified")

	require.NoError(t, m.handleTaskToggled(ctx, events.TaskToggledEvent{
		TaskID: "t1", Title: "Ship", CreatorID: "alice", ActorID: "bob", Completed: true,
	}, nil))
	require.NoError(t, m.handleTaskToggled(ctx, events.TaskToggledEvent{
		TaskID: "t1", Title: "Ship", CreatorID: "alice", ActorID: "bob", Completed: false,
	}, nil))

	got := m.Notifications("alice")
	require.Len(t, got, 2)
	assert.Equal(t, "task_reopened", got[0].Type)
	assert.Equal(t, "task_completed", got[1].Type)
	assert.Empty(t, m.Notifications("bob"))
}

func TestHandleTaskDeleted_SkipsActor(t *testing.T) {
	m := NewModule()

	require.NoError(t, m.handleTaskDeleted(context.Background(), events.TaskDeletedEvent{
		TaskID: "t1", Title: "Old", CreatorID: "alice", ActorID: "bob",
		AssigneeIDs: []string{"bob", "carol", "alice"},
	}, nil))

	assert.Len(t, m.Notifications("alice"), 1)
	assert.Len(t, m.Notifications("carol"), 1)
	assert.Empty(t, m.Notifications("bob"))
}

func TestFeed_KeepsNewestWithinLimit(t *testing.T) {
	f := NewFeed(3)
	for i := 0; i < 5; i++ {
		f.Push([]string{"u"}, Notification{TaskID: fmt.Sprintf("t%d", i)})
	}

	got := f.List("u")
	require.Len(t, got, 3)
	assert.Equal(t, "t4", got[0].TaskID)
	assert.Equal(t, "t2", got[2].TaskID)
	assert.Empty(t, f.List("nobody"))
}

func TestListNotificationsService(t *testing.T) {
	m := NewModule()
	m.feed.Push([]string{"u"}, Notification{Type: "task_assigned", TaskID: "t1"})

	resp, err := m.listNotifications(context.Background(), ListRequest{UserID: "u"}, nil)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "t1", resp.Notifications[0].TaskID)
}

func TestWithout(t *testing.T) {
	assert.Equal(t, []string{"b", "c"}, without([]string{"a", "b", "", "b", "c"}, "a"))
	assert.Empty(t, without(nil, "a"))
}
