package api

import (
	"time"

	"github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is returned after signing in. The session cookie is set as well.
type LoginResponse struct {
	User   auth.UserResponse `json:"user"`
	Tokens user.TokenPair    `json:"tokens"`
}

// UsersResponse is the assignable user directory.
type UsersResponse struct {
	Users []user.Summary `json:"users"`
}

// CreateTaskRequest is the body of POST /tasks.
// Deadline accepts RFC 3339 or a plain date (2006-01-02).
type CreateTaskRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	AssignedToUserIDs []string `json:"assignedToUserIds"`
	Deadline          string   `json:"deadline"`
	ProjectID         string   `json:"projectId"`
}

// AssignTaskRequest is the body of POST /assign.
type AssignTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  []string `json:"assignedTo"`
	Deadline    string   `json:"deadline"`
	ProjectID   string   `json:"projectId"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. An empty deadline string clears it.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Deadline    *string `json:"deadline"`
}

// ProjectRequest is the body of POST /projects and PUT /projects/:id.
type ProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// SuggestRequest is the body of POST /ai/suggest.
type SuggestRequest struct {
	Keyword string `json:"keyword"`
}

// AcceptSuggestionsRequest is the body of POST /ai/suggestions/accept.
type AcceptSuggestionsRequest struct {
	Titles []string `json:"titles"`
}

// DashboardResponse summarises the caller's workload.
type DashboardResponse struct {
	ProjectCount   int64 `json:"projectCount"`
	TaskCount      int64 `json:"taskCount"`
	PendingCount   int64 `json:"pendingCount"`
	CompletedCount int64 `json:"completedCount"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

// parseDeadline accepts RFC 3339 timestamps and plain dates. Blank input means no deadline.
func parseDeadline(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t, true
	}
	return nil, false
}
