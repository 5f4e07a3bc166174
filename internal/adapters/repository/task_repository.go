package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Task, error) {
	query := `
		SELECT id, user_id, title, date, time, duration, notes,
		       COALESCE(subject_id, '') AS subject_id, completed
		FROM tasks
		WHERE user_id = $1
		ORDER BY date ASC`

	tasks := []entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (id, user_id, title, date, time, duration, notes, subject_id, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`

	if _, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Date, task.Time,
		task.Duration, task.Notes, task.SubjectID, task.Completed,
	); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id string, patch planner.TaskPatch) (*entities.Task, error) {
	existing, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		existing.Title = *patch.Title
	}
	if patch.Date != nil {
		existing.Date = *patch.Date
	}
	if patch.Time != nil {
		existing.Time = *patch.Time
	}
	if patch.Duration != nil {
		existing.Duration = *patch.Duration
	}
	if patch.Notes != nil {
		existing.Notes = *patch.Notes
	}
	if patch.SubjectID != nil {
		existing.SubjectID = *patch.SubjectID
	}
	if patch.Completed != nil {
		existing.Completed = *patch.Completed
	}

	query := `
		UPDATE tasks
		SET title = $2, date = $3, time = $4, duration = $5, notes = $6, subject_id = NULLIF($7, ''), completed = $8
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query,
		id, existing.Title, existing.Date, existing.Time,
		existing.Duration, existing.Notes, existing.SubjectID, existing.Completed,
	); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return existing, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) getByID(ctx context.Context, id string) (*entities.Task, error) {
	query := `
		SELECT id, user_id, title, date, time, duration, notes,
		       COALESCE(subject_id, '') AS subject_id, completed
		FROM tasks
		WHERE id = $1`

	var task entities.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}
	return &task, nil
}
