package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/planner"
)

// The hosted-backend data-access layer: one repository per table, every
// row keyed by the owning user's id. All operations are fallible and
// must be awaited before assuming durability; the core reports failures
// and never retries.

// SubjectRepository defines the interface for hosted subject rows
type SubjectRepository interface {
	GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Subject, error)
	Create(ctx context.Context, subject *entities.Subject) (*entities.Subject, error)
	Update(ctx context.Context, id string, patch planner.SubjectPatch) (*entities.Subject, error)
	Replace(ctx context.Context, subject *entities.Subject) error
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines the interface for hosted task rows
type TaskRepository interface {
	GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Task, error)
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)
	Update(ctx context.Context, id string, patch planner.TaskPatch) (*entities.Task, error)
	Delete(ctx context.Context, id string) error
}

// ExamRepository defines the interface for hosted exam rows
type ExamRepository interface {
	GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Exam, error)
	Create(ctx context.Context, exam *entities.Exam) (*entities.Exam, error)
	Update(ctx context.Context, id string, patch planner.ExamPatch) (*entities.Exam, error)
	Delete(ctx context.Context, id string) error
}

// LectureRepository defines the interface for hosted lecture rows
type LectureRepository interface {
	GetAll(ctx context.Context, userID uuid.UUID) ([]entities.Lecture, error)
	Create(ctx context.Context, lecture *entities.Lecture) (*entities.Lecture, error)
	Update(ctx context.Context, id string, patch planner.LecturePatch) (*entities.Lecture, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
