package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/planner"
)

// AuthService interface for authentication operations
type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*entities.User, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// SubjectService interface for subject, section and status operations
type SubjectService interface {
	ListSubjects(ctx context.Context) ([]entities.Subject, error)
	GetSubject(ctx context.Context, id string) (*entities.Subject, error)
	CreateSubject(ctx context.Context, userID uuid.UUID, req CreateSubjectRequest) (*entities.Subject, error)
	UpdateSubject(ctx context.Context, id string, patch planner.SubjectPatch) (*entities.Subject, error)
	DeleteSubject(ctx context.Context, id string) error

	AddSection(ctx context.Context, subjectID string, req SectionRequest) (*entities.Section, error)
	RenameSection(ctx context.Context, subjectID, sectionID string, req SectionRequest) error
	DeleteSection(ctx context.Context, subjectID, sectionID string) error

	AddStatus(ctx context.Context, subjectID string, req StatusRequest) error
	RecolorStatus(ctx context.Context, subjectID, name string, req RecolorStatusRequest) error
	DeleteStatus(ctx context.Context, subjectID, name string) error
}

// TaskService interface for task operations
type TaskService interface {
	ListTasks(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
	CreateTask(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, id string, patch planner.TaskPatch) (*entities.Task, error)
	ToggleTask(ctx context.Context, id string) (*entities.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// ExamService interface for exam operations
type ExamService interface {
	ListExams(ctx context.Context, upcomingOnly bool) ([]entities.Exam, error)
	CreateExam(ctx context.Context, userID uuid.UUID, req CreateExamRequest) (*entities.Exam, error)
	UpdateExam(ctx context.Context, id string, patch planner.ExamPatch) (*entities.Exam, error)
	DeleteExam(ctx context.Context, id string) error
}

// LectureService interface for lecture operations
type LectureService interface {
	ListLectures(ctx context.Context, subjectID string) ([]entities.Lecture, error)
	CreateLecture(ctx context.Context, userID uuid.UUID, req CreateLectureRequest) (*entities.Lecture, error)
	UpdateLecture(ctx context.Context, id string, patch planner.LecturePatch) (*entities.Lecture, error)
	CycleLectureStatus(ctx context.Context, id string) (*entities.Lecture, error)
	CycleLectureCompletion(ctx context.Context, id string) (*entities.Lecture, error)
	DeleteLecture(ctx context.Context, id string) error
	SubjectProgress(ctx context.Context, subjectID string) (*ProgressResponse, error)
}

// CalendarService interface for derived calendar projections
type CalendarService interface {
	Events(ctx context.Context) ([]planner.CalendarEvent, error)
	ResolveSubject(ctx context.Context, subjectID string) planner.SubjectRef
}

// SettingsService interface for the configuration collections
type SettingsService interface {
	StatusSettings(ctx context.Context) (map[string]entities.StatusSetting, error)
	SetStatusSetting(ctx context.Context, key string, req StatusSettingRequest) error
	RemoveStatusSetting(ctx context.Context, key string) error
	CompletionSettings(ctx context.Context) (map[string]entities.CompletionSetting, error)
	SectionLabels(ctx context.Context) ([]string, error)
	AddSectionLabel(ctx context.Context, req SectionRequest) error
}

// Request/Response Types

// Auth related types
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Planner related types
type CreateSubjectRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type CreateTaskRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"omitempty,datetime=15:04"`
	Duration  string `json:"duration" validate:"omitempty"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
	SubjectID string `json:"subjectId" validate:"omitempty,uuid"`
}

type CreateExamRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"omitempty,datetime=15:04"`
	SubjectID string `json:"subjectId" validate:"required,uuid"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

type CreateLectureRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	SubjectID string `json:"subjectId" validate:"required,uuid"`
	SectionID string `json:"sectionId" validate:"omitempty,uuid"`
	Status    string `json:"status" validate:"omitempty"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

type SectionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type StatusRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type RecolorStatusRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

type StatusSettingRequest struct {
	Label       string `json:"label" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Color       string `json:"color" validate:"required"`
	BgColor     string `json:"bgColor" validate:"omitempty"`
	TextColor   string `json:"textColor" validate:"omitempty"`
}

// TaskFilter narrows a task listing; zero values mean no filtering.
type TaskFilter struct {
	SubjectID string `query:"subject_id"`
	Completed *bool  `query:"completed"`
}

type ProgressResponse struct {
	SubjectID string  `json:"subjectId"`
	Total     int     `json:"total"`
	Done      int     `json:"done"`
	Percent   float64 `json:"percent"`
}

// Response types for common structures
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
