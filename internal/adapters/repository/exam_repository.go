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

// ExamRepositoryImpl implements the ExamRepository interface
type ExamRepositoryImpl struct {
	db *sqlx.DB
}

// NewExamRepository creates a new exam repository
func NewExamRepository(db *sqlx.DB) ports.ExamRepository {
	return &ExamRepositoryImpl{db: db}
}

func (r *ExamRepositoryImpl) GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Exam, error) {
	query := `
		SELECT id, user_id, title, date, time, subject_id, notes, completed
		FROM exams
		WHERE user_id = $1
		ORDER BY date ASC`

	exams := []entities.Exam{}
	if err := r.db.SelectContext(ctx, &exams, query, userID); err != nil {
		return nil, fmt.Errorf("get exams: %w", err)
	}
	return exams, nil
}

func (r *ExamRepositoryImpl) Create(ctx context.Context, exam *entities.Exam) (*entities.Exam, error) {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}

	query := `
		INSERT INTO exams (id, user_id, title, date, time, subject_id, notes, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		exam.ID, exam.UserID, exam.Title, exam.Date, exam.Time,
		exam.SubjectID, exam.Notes, exam.Completed,
	); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

func (r *ExamRepositoryImpl) Update(ctx context.Context, id string, patch planner.ExamPatch) (*entities.Exam, error) {
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
	if patch.SubjectID != nil {
		existing.SubjectID = *patch.SubjectID
	}
	if patch.Notes != nil {
		existing.Notes = *patch.Notes
	}
	if patch.Completed != nil {
		existing.Completed = *patch.Completed
	}

	query := `
		UPDATE exams
		SET title = $2, date = $3, time = $4, subject_id = $5, notes = $6, completed = $7
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query,
		id, existing.Title, existing.Date, existing.Time,
		existing.SubjectID, existing.Notes, existing.Completed,
	); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return existing, nil
}

func (r *ExamRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrExamNotFound
	}
	return nil
}

func (r *ExamRepositoryImpl) getByID(ctx context.Context, id string) (*entities.Exam, error) {
	query := `
		SELECT id, user_id, title, date, time, subject_id, notes, completed
		FROM exams
		WHERE id = $1`

	var exam entities.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam by id: %w", err)
	}
	return &exam, nil
}
