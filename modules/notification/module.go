package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskboard/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ListRequest asks for a user's notifications.
type ListRequest struct {
	UserID string `json:"user_id"`
}

// ListResponse holds a user's notifications, newest first.
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
}

// NotificationModule turns task events into per-user notifications.
type NotificationModule struct {
	feed *Feed
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)
var _ mono.ServiceProviderModule = (*NotificationModule)(nil)

func NewModule() *NotificationModule {
	return &NotificationModule{feed: NewFeed(DefaultFeedSize)}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskToggledV1, m.handleTaskToggled, m); err != nil {
		return fmt.Errorf("failed to register TaskToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: TaskCreated, TaskToggled, TaskDeleted")
	return nil
}

func (m *NotificationModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-notifications", json.Unmarshal, json.Marshal, m.listNotifications,
	); err != nil {
		return fmt.Errorf("failed to register list-notifications service: %w", err)
	}
	log.Printf("[notification] Registered services: list-notifications")
	return nil
}

// handleTaskCreated tells every assignee other than the creator about the new task.
func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	recipients := without(event.AssigneeIDs, event.CreatorID)
	if len(recipients) == 0 {
		return nil
	}
	log.Printf("[notification] Task %s assigned to %d user(s)", event.TaskID, len(recipients))
	m.feed.Push(recipients, Notification{
		Type:      "task_assigned",
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("%s assigned you %q", event.CreatorName, event.Title),
		Timestamp: event.CreatedAt,
	})
	return nil
}

// handleTaskToggled tells the creator when someone else changes completion.
func (m *NotificationModule) handleTaskToggled(_ context.Context, event events.TaskToggledEvent, _ *mono.Msg) error {
	if event.ActorID == event.CreatorID {
		return nil
	}
	state := "reopened"
	if event.Completed {
		state = "completed"
	}
	m.feed.Push([]string{event.CreatorID}, Notification{
		Type:      "task_" + state,
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Task %q was %s", event.Title, state),
		Timestamp: event.ToggledAt,
	})
	return nil
}

// handleTaskDeleted tells the creator and assignees, except whoever deleted it.
func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	recipients := without(append([]string{event.CreatorID}, event.AssigneeIDs...), event.ActorID)
	if len(recipients) == 0 {
		return nil
	}
	log.Printf("[notification] Task %s deleted by %s", event.TaskID, event.ActorID)
	m.feed.Push(recipients, Notification{
		Type:      "task_deleted",
		TaskID:    event.TaskID,
		Message:   fmt.Sprintf("Task %q was deleted", event.Title),
		Timestamp: event.DeletedAt,
	})
	return nil
}

func (m *NotificationModule) listNotifications(_ context.Context, req ListRequest, _ *mono.Msg) (ListResponse, error) {
	return ListResponse{Notifications: m.feed.List(req.UserID)}, nil
}

// Notifications returns a user's notifications, newest first.
func (m *NotificationModule) Notifications(userID string) []Notification {
	return m.feed.List(userID)
}

func (m *NotificationModule) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}

// without returns ids minus exclude and duplicates, keeping order.
func without(ids []string, exclude string) []string {
	seen := map[string]bool{exclude: true}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
