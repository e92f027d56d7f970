package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
)

// TaskService handles task-related business logic.
type TaskService struct {
	tasks     ports.TaskRepository
	scheduler ports.ReminderScheduler
}

// NewTaskService creates a new TaskService. A nil scheduler disables
// due reminders.
func NewTaskService(tasks ports.TaskRepository, scheduler ports.ReminderScheduler) *TaskService {
	return &TaskService{tasks: tasks, scheduler: scheduler}
}

// List returns tasks, optionally filtered by status.
func (s *TaskService) List(ctx context.Context, status string) ([]domain.Task, error) {
	return s.tasks.List(ctx, status)
}

// GetByID returns a task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Create stores a new task and, when it has a due time, schedules its
// reminder. If scheduling fails the task is rolled back so we never
// hold a task whose promised reminder will not fire.
func (s *TaskService) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.TaskOpen
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return err
	}

	if task.DueAt != nil && s.scheduler != nil {
		if err := s.scheduler.ScheduleReminder(ctx, task); err != nil {
			// Compensate: drop the task rather than leave it silent.
			_ = s.tasks.Delete(ctx, task.ID)
			return fmt.Errorf("schedule reminder: %w", err)
		}
	}
	return nil
}

// Update stores changed task fields and reschedules the reminder when a
// due time is present.
func (s *TaskService) Update(ctx context.Context, task *domain.Task) error {
	if err := s.tasks.Update(ctx, task); err != nil {
		return err
	}
	if s.scheduler == nil {
		return nil
	}
	_ = s.scheduler.CancelReminder(ctx, task.ID)
	if task.DueAt != nil && task.Status == domain.TaskOpen {
		if err := s.scheduler.ScheduleReminder(ctx, task); err != nil {
			return fmt.Errorf("reschedule reminder: %w", err)
		}
	}
	return nil
}

// Complete marks a task done. The reminder cancel is best-effort: the
// workflow rechecks task status before it publishes anything.
func (s *TaskService) Complete(ctx context.Context, id string) (*domain.Task, error) {
	return s.close(ctx, id, domain.TaskDone)
}

// Cancel marks a task cancelled.
func (s *TaskService) Cancel(ctx context.Context, id string) (*domain.Task, error) {
	return s.close(ctx, id, domain.TaskCancelled)
}

func (s *TaskService) close(ctx context.Context, id, status string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	now := time.Now()
	if err := s.tasks.SetStatus(ctx, id, status, &now); err != nil {
		return nil, err
	}
	task.Status = status
	task.CompletedAt = &now
	if s.scheduler != nil {
		_ = s.scheduler.CancelReminder(ctx, id)
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	if s.scheduler != nil {
		_ = s.scheduler.CancelReminder(ctx, id)
	}
	return nil
}
