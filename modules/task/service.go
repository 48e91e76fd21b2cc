package task

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/taskboard/domain/apperr"
	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/events"
	"github.com/example/taskboard/modules/project"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// ProjectChecker resolves a project owned by a user.
type ProjectChecker interface {
	GetProject(ctx context.Context, ownerID, projectID string) (*project.ProjectResponse, error)
}

// Service implements task creation, assignment, listing and completion.
type Service struct {
	repo     *Repository
	projects ProjectChecker
	eventBus mono.EventBus
}

// NewService creates a new Service. eventBus may be nil, in which case no events are published.
func NewService(repo *Repository, projects ProjectChecker, eventBus mono.EventBus) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		eventBus: eventBus,
	}
}

// Create stores a task for the creator. Without assignees the creator is assigned.
func (s *Service) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	if len(in.AssigneeIDs) == 0 {
		in.AssigneeIDs = []string{in.CreatorID}
	}
	return s.CreateAssigned(ctx, in)
}

// CreateAssigned stores a task linked to an explicit, non-empty set of existing users.
// Nothing is persisted when validation fails.
func (s *Service) CreateAssigned(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	if in.CreatorID == "" {
		return nil, apperr.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	description := strings.TrimSpace(in.Description)
	if err := checkLengths(title, description); err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.AssigneeIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("at least one assignee is required")
	}

	assignees, err := s.repo.FindUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}
	if len(assignees) != len(ids) {
		return nil, apperr.Validation("unknown assignee")
	}

	projectID, err := s.checkProject(ctx, in.CreatorID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Deadline:    in.Deadline,
		CreatorID:   in.CreatorID,
		Assignees:   assignees,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	created, err := s.repo.FindVisible(ctx, in.CreatorID, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	if s.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:      created.ID,
			Title:       created.Title,
			CreatorID:   created.CreatorID,
			CreatorName: created.Creator.Name,
			AssigneeIDs: ids,
			CreatedAt:   created.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", created.ID, err)
		}
	}
	return created, nil
}

// List returns the tasks visible to the user, newest first, narrowed by view.
func (s *Service) List(ctx context.Context, userID, email string, view domain.View) ([]domain.Task, error) {
	if !view.Valid() {
		return nil, apperr.Validation("unknown view")
	}
	tasks, err := s.repo.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return domain.Filter(tasks, view, email), nil
}

// Get returns a visible task.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	return s.repo.FindVisible(ctx, userID, id)
}

// Update applies the set fields of a patch to a visible task.
func (s *Service) Update(ctx context.Context, userID, id string, patch TaskPatch) (*domain.Task, error) {
	fields := make(map[string]any)
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		if err := checkLengths(title, ""); err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if err := checkLengths("", description); err != nil {
			return nil, err
		}
		fields["description"] = description
	}
	if patch.Completed != nil {
		fields["completed"] = *patch.Completed
	}
	if patch.ClearDeadline {
		fields["deadline"] = nil
	} else if patch.Deadline != nil {
		fields["deadline"] = *patch.Deadline
	}

	if len(fields) == 0 {
		return s.repo.FindVisible(ctx, userID, id)
	}
	if err := s.repo.Update(ctx, userID, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindVisible(ctx, userID, id)
}

// Toggle flips completion of a visible task.
func (s *Service) Toggle(ctx context.Context, userID, id string) (*domain.Task, error) {
	if err := s.repo.Toggle(ctx, userID, id); err != nil {
		return nil, err
	}
	t, err := s.repo.FindVisible(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		event := events.TaskToggledEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			CreatorID: t.CreatorID,
			ActorID:   userID,
			Completed: t.Completed,
			ToggledAt: t.UpdatedAt,
		}
		if err := events.TaskToggledV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskToggled event for task %s: %v", t.ID, err)
		}
	}
	return t, nil
}

// Delete removes a task the user created or is assigned to.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	t, err := s.repo.FindVisible(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t); err != nil {
		return err
	}

	if s.eventBus != nil {
		assignees := make([]string, 0, len(t.Assignees))
		for _, a := range t.Assignees {
			assignees = append(assignees, a.ID)
		}
		event := events.TaskDeletedEvent{
			TaskID:      t.ID,
			Title:       t.Title,
			ActorID:     userID,
			AssigneeIDs: assignees,
			CreatorID:   t.CreatorID,
			DeletedAt:   time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", t.ID, err)
		}
	}
	return nil
}

// Stats counts the tasks visible to the user.
func (s *Service) Stats(ctx context.Context, userID string) (StatsResponse, error) {
	total, completed, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return StatsResponse{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	return StatsResponse{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}, nil
}

func (s *Service) checkProject(ctx context.Context, ownerID string, projectID *string) (*string, error) {
	if projectID == nil || *projectID == "" {
		return nil, nil
	}
	if s.projects == nil {
		return nil, apperr.Validation("projects are not available")
	}
	if _, err := s.projects.GetProject(ctx, ownerID, *projectID); err != nil {
		if apperr.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("unknown project")
		}
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	id := *projectID
	return &id, nil
}

// uniqueIDs trims ids and drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func checkLengths(title, description string) error {
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return apperr.Validation("title must be at most %d characters", domain.MaxTitleLength)
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return apperr.Validation("description must be at most %d characters", domain.MaxDescriptionLength)
	}
	return nil
}
