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

// LectureRepositoryImpl implements the LectureRepository interface
type LectureRepositoryImpl struct {
	db *sqlx.DB
}

// NewLectureRepository creates a new lecture repository
func NewLectureRepository(db *sqlx.DB) ports.LectureRepository {
	return &LectureRepositoryImpl{db: db}
}

func (r *LectureRepositoryImpl) GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Lecture, error) {
	query := `
		SELECT id, user_id, title, subject_id, section_id, status, completed, notes
		FROM lectures
		WHERE user_id = $1
		ORDER BY created_at ASC`

	lectures := []entities.Lecture{}
	if err := r.db.SelectContext(ctx, &lectures, query, userID); err != nil {
		return nil, fmt.Errorf("get lectures: %w", err)
	}
	return lectures, nil
}

func (r *LectureRepositoryImpl) Create(ctx context.Context, lecture *entities.Lecture) (*entities.Lecture, error) {
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}

	query := `
		INSERT INTO lectures (id, user_id, title, subject_id, section_id, status, completed, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		lecture.ID, lecture.UserID, lecture.Title, lecture.SubjectID,
		lecture.SectionID, lecture.Status, lecture.Completed, lecture.Notes,
	); err != nil {
		return nil, fmt.Errorf("create lecture: %w", err)
	}
	return lecture, nil
}

func (r *LectureRepositoryImpl) Update(ctx context.Context, id string, patch planner.LecturePatch) (*entities.Lecture, error) {
	existing, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		existing.Title = *patch.Title
	}
	if patch.SectionID != nil {
		existing.SectionID = *patch.SectionID
	}
	if patch.Status != nil {
		existing.Status = *patch.Status
	}
	if patch.Notes != nil {
		existing.Notes = *patch.Notes
	}
	if patch.Completed != nil {
		existing.Completed = *patch.Completed
	}

	query := `
		UPDATE lectures
		SET title = $2, section_id = $3, status = $4, completed = $5, notes = $6
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query,
		id, existing.Title, existing.SectionID, existing.Status, existing.Completed, existing.Notes,
	); err != nil {
		return nil, fmt.Errorf("update lecture: %w", err)
	}
	return existing, nil
}

func (r *LectureRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrLectureNotFound
	}
	return nil
}

func (r *LectureRepositoryImpl) getByID(ctx context.Context, id string) (*entities.Lecture, error) {
	query := `
		SELECT id, user_id, title, subject_id, section_id, status, completed, notes
		FROM lectures
		WHERE id = $1`

	var lecture entities.Lecture
	if err := r.db.GetContext(ctx, &lecture, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrLectureNotFound
		}
		return nil, fmt.Errorf("get lecture by id: %w", err)
	}
	return &lecture, nil
}
