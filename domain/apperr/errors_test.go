package apperr

import (
	"fmt"
	"testing"

	monoerrors "github.com/go-monolith/mono/pkg/errors"
)

// remote reproduces what a caller sees when a request-reply handler returns err.
func remote(service string, err error) error {
	return fmt.Errorf("%s service call failed: failed to call service '%s': %w",
		service, service, monoerrors.WrapRemoteError(service, "test", err.Error(), "wrap"))
}

func TestIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "wrapped sentinel",
			err:    fmt.Errorf("create failed: %w", Validation("title is required")),
			target: ErrValidation,
			want:   true,
		},
		{
			name:   "remote sentinel",
			err:    remote("get-task", NotFound("task")),
			target: ErrNotFound,
			want:   true,
		},
		{
			name:   "remote bare sentinel",
			err:    remote("create-task", ErrUnauthorized),
			target: ErrUnauthorized,
			want:   true,
		},
		{
			name:   "remote validation mentioning another sentinel",
			err:    remote("list-tasks", Validation("unknown view: unauthorized")),
			target: ErrUnauthorized,
			want:   false,
		},
		{
			name:   "remote internal error wrapping a sentinel",
			err:    remote("get-user", fmt.Errorf("failed to find user: %w", NotFound("user"))),
			target: ErrNotFound,
			want:   false,
		},
		{
			name:   "plain text is not classified",
			err:    fmt.Errorf("get-task service call failed: task not found"),
			target: ErrNotFound,
			want:   false,
		},
		{
			name:   "different kind",
			err:    Upstream("status 503"),
			target: ErrEmptyResult,
			want:   false,
		},
		{
			name:   "nil error",
			err:    nil,
			target: ErrNotFound,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   string
	}{
		{
			name:   "remote detail without error type",
			err:    remote("create-task", Validation("title is required")),
			target: ErrValidation,
			want:   "title is required",
		},
		{
			name:   "remote conflict",
			err:    remote("register", Conflict("user with this email already exists")),
			target: ErrConflict,
			want:   "user with this email already exists",
		},
		{
			name:   "local wrapped detail",
			err:    fmt.Errorf("accept failed: %w", Validation("title is required")),
			target: ErrValidation,
			want:   "title is required",
		},
		{
			name:   "remote of another kind",
			err:    remote("create-task", NotFound("project")),
			target: ErrValidation,
			want:   "",
		},
		{
			name:   "no detail",
			err:    fmt.Errorf("boom"),
			target: ErrValidation,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err, tt.target); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
