package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// ReminderInput is the input for the task reminder workflow.
type ReminderInput struct {
	TaskID string
	DueAt  time.Time
	// Lead is how long before DueAt the reminder fires.
	Lead time.Duration
}

// TaskReminderWorkflow sleeps until a task's reminder time, then
// claims the reminder flag and publishes the due event. The flag is
// claimed first so a crash between publish and flag write cannot
// double-announce; if publishing ultimately fails the claim is rolled
// back (saga compensation). Cancelling the workflow — done when the
// task is completed, cancelled, rescheduled, or deleted — silently
// drops the reminder.
func TaskReminderWorkflow(ctx workflow.Context, input ReminderInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Reminder scheduled", "task_id", input.TaskID, "due_at", input.DueAt)

	fireAt := input.DueAt.Add(-input.Lead)
	if wait := fireAt.Sub(workflow.Now(ctx)); wait > 0 {
		if err := workflow.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Re-check the task; it may have been closed while we slept.
	var task *domain.Task
	if err := workflow.ExecuteActivity(ctx, "LoadDueTask", input.TaskID).Get(ctx, &task); err != nil {
		return err
	}
	if task == nil {
		logger.Info("Task no longer needs a reminder", "task_id", input.TaskID)
		return nil
	}

	// Step 2: Claim the reminder flag.
	if err := workflow.ExecuteActivity(ctx, "MarkReminderSent", input.TaskID).Get(ctx, nil); err != nil {
		return err
	}

	// Step 3: Publish the due event.
	if err := workflow.ExecuteActivity(ctx, "PublishTaskDue", task).Get(ctx, nil); err != nil {
		logger.Warn("publish failed, rolling back reminder claim", "error", err)
		_ = workflow.ExecuteActivity(ctx, "UnmarkReminderSent", input.TaskID).Get(ctx, nil)
		return err
	}

	logger.Info("Reminder delivered", "task_id", input.TaskID)
	return nil
}
