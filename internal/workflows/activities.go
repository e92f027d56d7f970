package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/pkg/metrics"
)

// ReminderActivities holds the activity implementations for the task
// reminder workflow.
type ReminderActivities struct {
	Tasks  ports.TaskRepository
	Events ports.EventPublisher
}

// LoadDueTask returns the task if it still needs a reminder, or nil
// when it was closed, deleted, or already reminded about.
func (a *ReminderActivities) LoadDueTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := a.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	if task == nil || task.Status != domain.TaskOpen || task.ReminderSent {
		return nil, nil
	}
	return task, nil
}

// MarkReminderSent claims the task's one reminder before publishing,
// so a crashed workflow never double-announces.
func (a *ReminderActivities) MarkReminderSent(ctx context.Context, taskID string) error {
	if err := a.Tasks.SetReminderSent(ctx, taskID, true); err != nil {
		return fmt.Errorf("mark reminder sent %s: %w", taskID, err)
	}
	return nil
}

// PublishTaskDue announces the task on the broker.
func (a *ReminderActivities) PublishTaskDue(ctx context.Context, task *domain.Task) error {
	if err := a.Events.PublishTaskDue(ctx, task); err != nil {
		return fmt.Errorf("publish task due %s: %w", task.ID, err)
	}
	metrics.RemindersSent.Inc()
	slog.Info("task reminder published", "task_id", task.ID, "title", task.Title)
	return nil
}

// UnmarkReminderSent releases the reminder claim (saga compensation /
// rollback) so a later retry can announce the task.
func (a *ReminderActivities) UnmarkReminderSent(ctx context.Context, taskID string) error {
	if err := a.Tasks.SetReminderSent(ctx, taskID, false); err != nil {
		return fmt.Errorf("unmark reminder sent %s: %w", taskID, err)
	}
	slog.Info("reminder claim rolled back", "task_id", taskID)
	return nil
}
