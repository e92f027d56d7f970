// Package temporaladapter implements ports.ReminderScheduler on a
// Temporal cluster, giving task reminders a schedule that survives
// process restarts.
package temporaladapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/workflows"
)

// Scheduler starts one reminder workflow per task with a due time.
type Scheduler struct {
	client    client.Client
	taskQueue string
	lead      time.Duration
}

// NewScheduler wraps an existing Temporal client.
func NewScheduler(c client.Client, taskQueue string, lead time.Duration) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue, lead: lead}
}

// ScheduleReminder starts (or restarts) the reminder workflow for a
// task. The workflow ID is derived from the task ID, so rescheduling
// an edited due time replaces the pending reminder rather than adding
// a second one. Tasks without a due time get no reminder.
func (s *Scheduler) ScheduleReminder(ctx context.Context, task *domain.Task) error {
	if task.DueAt == nil {
		return nil
	}
	opts := client.StartWorkflowOptions{
		ID:                    workflowID(task.ID),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_TERMINATE_IF_RUNNING,
	}
	input := workflows.ReminderInput{
		TaskID: task.ID,
		DueAt:  *task.DueAt,
		Lead:   s.lead,
	}
	if _, err := s.client.ExecuteWorkflow(ctx, opts, workflows.TaskReminderWorkflow, input); err != nil {
		return fmt.Errorf("start reminder workflow: %w", err)
	}
	return nil
}

// CancelReminder stops the pending reminder workflow. A reminder that
// already fired or was never scheduled is not an error.
func (s *Scheduler) CancelReminder(ctx context.Context, taskID string) error {
	err := s.client.CancelWorkflow(ctx, workflowID(taskID), "")
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func workflowID(taskID string) string {
	return "task-reminder-" + taskID
}
