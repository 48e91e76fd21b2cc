// Package guest keeps the anonymous, per-session task list that visitors can use before signing in.
//
// Nothing here is persisted: a list lives in process memory until its session signs out.
package guest

import (
	"strings"
	"sync"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const idLength = 21

var newID = func() func() string {
	gen, err := nanoid.Standard(idLength)
	if err != nil {
		panic(err)
	}
	return gen
}()

// Task is a guest task. It has no creator or assignees.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskStore is an ephemeral, ordered task collection.
// Mutations on missing ids and adds with a blank title are no-ops reported through the bool result.
type TaskStore interface {
	Add(title, description string) (Task, bool)
	Toggle(id string) (Task, bool)
	Delete(id string) bool
	Clear()
	Get(id string) (Task, bool)
	List() []Task
	Len() int
}

// Store is the in-memory TaskStore.
type Store struct {
	mu    sync.RWMutex
	tasks []Task
}

var _ TaskStore = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a task with a fresh id and completed=false.
func (s *Store) Add(title, description string) (Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false
	}
	t := Task{
		ID:          newID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t, true
}

// Toggle flips the completion flag of the task with the given id.
func (s *Store) Toggle(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i], true
}

// Delete removes the task with the given id.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// Clear drops every task.
func (s *Store) Clear() {
	s.mu.Lock()
	s.tasks = nil
	s.mu.Unlock()
}

func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
