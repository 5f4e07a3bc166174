package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
)

// SubjectRepositoryImpl implements the SubjectRepository interface
type SubjectRepositoryImpl struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *sqlx.DB) ports.SubjectRepository {
	return &SubjectRepositoryImpl{db: db}
}

// subjectRow is the table shape; sections and statuses are JSONB columns.
type subjectRow struct {
	ID       string         `db:"id"`
	UserID   string         `db:"user_id"`
	Name     string         `db:"name"`
	Color    string         `db:"color"`
	Sections types.JSONText `db:"sections"`
	Statuses types.JSONText `db:"statuses"`
}

func (r subjectRow) toEntity() (entities.Subject, error) {
	s := entities.Subject{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,
		Color:  r.Color,
	}
	if len(r.Sections) > 0 {
		if err := json.Unmarshal(r.Sections, &s.Sections); err != nil {
			return entities.Subject{}, fmt.Errorf("decode sections: %w", err)
		}
	}
	if len(r.Statuses) > 0 {
		if err := json.Unmarshal(r.Statuses, &s.Statuses); err != nil {
			return entities.Subject{}, fmt.Errorf("decode statuses: %w", err)
		}
	}
	s.EnsureDefaults()
	return s, nil
}

func (r *SubjectRepositoryImpl) GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Subject, error) {
	query := `
		SELECT id, user_id, name, color, sections, statuses
		FROM subjects
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("get subjects: %w", err)
	}

	subjects := make([]entities.Subject, 0, len(rows))
	for _, row := range rows {
		s, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (r *SubjectRepositoryImpl) Create(ctx context.Context, subject *entities.Subject) (*entities.Subject, error) {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	subject.EnsureDefaults()

	sections, err := json.Marshal(subject.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	statuses, err := json.Marshal(subject.Statuses)
	if err != nil {
		return nil, fmt.Errorf("encode statuses: %w", err)
	}

	query := `
		INSERT INTO subjects (id, user_id, name, color, sections, statuses)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query, subject.ID, subject.UserID, subject.Name, subject.Color, sections, statuses); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return subject, nil
}

func (r *SubjectRepositoryImpl) Update(ctx context.Context, id string, patch planner.SubjectPatch) (*entities.Subject, error) {
	existing, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Color != nil {
		existing.Color = *patch.Color
	}

	sections, err := json.Marshal(existing.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	statuses, err := json.Marshal(existing.Statuses)
	if err != nil {
		return nil, fmt.Errorf("encode statuses: %w", err)
	}

	query := `
		UPDATE subjects
		SET name = $2, color = $3, sections = $4, statuses = $5
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, existing.Name, existing.Color, sections, statuses); err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	return existing, nil
}

// Replace pushes the full row, sections and statuses included. Cascades
// rewrite those embedded columns, which the field patch cannot express.
func (r *SubjectRepositoryImpl) Replace(ctx context.Context, subject *entities.Subject) error {
	sections, err := json.Marshal(subject.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	statuses, err := json.Marshal(subject.Statuses)
	if err != nil {
		return fmt.Errorf("encode statuses: %w", err)
	}

	query := `
		UPDATE subjects
		SET name = $2, color = $3, sections = $4, statuses = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, subject.ID, subject.Name, subject.Color, sections, statuses)
	if err != nil {
		return fmt.Errorf("replace subject: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepositoryImpl) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepositoryImpl) getByID(ctx context.Context, id string) (*entities.Subject, error) {
	query := `
		SELECT id, user_id, name, color, sections, statuses
		FROM subjects
		WHERE id = $1`

	var row subjectRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}
	s, err := row.toEntity()
	if err != nil {
		return nil, err
	}
	return &s, nil
}
