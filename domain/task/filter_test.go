package task

import (
	"testing"

	"github.com/example/taskboard/domain/user"
	"github.com/stretchr/testify/assert"
)

var (
	alice = user.User{ID: "a", Name: "Alice", Email: "alice@example.com"}
	bob   = user.User{ID: "b", Name: "Bob", Email: "bob@example.com"}
	carol = user.User{ID: "c", Name: "Carol", Email: "carol@example.com"}
	dave  = user.User{ID: "d", Name: "Dave", Email: "dave@example.com"}
)

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestAssignmentViews(t *testing.T) {
	shared := Task{ID: "t1", CreatorID: alice.ID, Creator: alice, Assignees: []user.User{bob, carol}}
	tasks := []Task{shared}

	tests := []struct {
		name  string
		email string
		toMe  []string
		byMe  []string
	}{
		{name: "creator", email: alice.Email, toMe: []string{}, byMe: []string{"t1"}},
		{name: "first assignee", email: bob.Email, toMe: []string{"t1"}, byMe: []string{}},
		{name: "second assignee", email: carol.Email, toMe: []string{"t1"}, byMe: []string{}},
		{name: "unrelated user", email: dave.Email, toMe: []string{}, byMe: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.toMe, ids(AssignedToMe(tasks, tt.email)))
			assert.Equal(t, tt.byMe, ids(AssignedByMe(tasks, tt.email)))
		})
	}
}

func TestSelfAssignedTaskAppearsInBothViews(t *testing.T) {
	self := Task{ID: "t2", CreatorID: alice.ID, Creator: alice, Assignees: []user.User{alice}}
	tasks := []Task{self}

	assert.Equal(t, []string{"t2"}, ids(AssignedToMe(tasks, alice.Email)))
	assert.Equal(t, []string{"t2"}, ids(AssignedByMe(tasks, alice.Email)))
}

func TestFilterKeepsOrder(t *testing.T) {
	tasks := []Task{
		{ID: "new", Creator: bob, Assignees: []user.User{alice}},
		{ID: "mid", Creator: alice, Assignees: []user.User{bob}},
		{ID: "old", Creator: carol, Assignees: []user.User{alice, bob}},
	}

	assert.Equal(t, []string{"new", "old"}, ids(Filter(tasks, ViewAssignedToMe, alice.Email)))
	assert.Equal(t, []string{"mid"}, ids(Filter(tasks, ViewAssignedByMe, alice.Email)))
	assert.Equal(t, []string{"new", "mid", "old"}, ids(Filter(tasks, ViewAll, alice.Email)))
}
