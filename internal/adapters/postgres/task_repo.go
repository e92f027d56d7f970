package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// TaskRepo implements ports.TaskRepository with pgx.
type TaskRepo struct {
	db *DB
}

// NewTaskRepo creates a new TaskRepo.
func NewTaskRepo(db *DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, title, COALESCE(details, ''), status, zone_id, due_at,
	       reminder_sent, completed_at, created_at`

// Create inserts a task.
func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO tasks (id, title, details, status, zone_id, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.Title, t.Details, t.Status, t.ZoneID, t.DueAt)
	return err
}

// Update replaces a task's fields.
func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, details = $3, status = $4, zone_id = $5, due_at = $6
		WHERE id = $1
	`, t.ID, t.Title, t.Details, t.Status, t.ZoneID, t.DueAt)
	return err
}

// GetByID returns a task by UUID, or nil when it does not exist.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Details, &t.Status, &t.ZoneID, &t.DueAt,
		&t.ReminderSent, &t.CompletedAt, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns tasks, open ones first by due time. An empty status
// means no filter.
func (r *TaskRepo) List(ctx context.Context, status string) ([]domain.Task, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE ($1 = '' OR status = $1)
		ORDER BY (status = 'open') DESC, due_at NULLS LAST, created_at
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Details, &t.Status, &t.ZoneID, &t.DueAt,
			&t.ReminderSent, &t.CompletedAt, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetStatus updates a task's status and completion time.
func (r *TaskRepo) SetStatus(ctx context.Context, id, status string, completedAt *time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE tasks SET status = $2, completed_at = $3 WHERE id = $1
	`, id, status, completedAt)
	return err
}

// SetReminderSent flips the reminder flag, claiming or releasing the
// one due reminder a task gets.
func (r *TaskRepo) SetReminderSent(ctx context.Context, id string, sent bool) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE tasks SET reminder_sent = $2 WHERE id = $1
	`, id, sent)
	return err
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
