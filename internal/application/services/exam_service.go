package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
	"github.com/studyplanner/core/internal/store"
)

// ExamService handles exam operations against the local store, with
// optional mirroring to the hosted repository.
type ExamService struct {
	store  *store.Store
	exams  *planner.Exams
	repo   ports.ExamRepository
	logger *logger.Logger
}

// NewExamService creates a new exam service
func NewExamService(st *store.Store, exams *planner.Exams, repo ports.ExamRepository, logger *logger.Logger) *ExamService {
	return &ExamService{store: st, exams: exams, repo: repo, logger: logger}
}

func (s *ExamService) ListExams(ctx context.Context, upcomingOnly bool) ([]entities.Exam, error) {
	list := s.exams.List()
	if upcomingOnly {
		list = planner.UpcomingExams(list)
	}
	return list, nil
}

func (s *ExamService) CreateExam(ctx context.Context, userID uuid.UUID, req ports.CreateExamRequest) (*entities.Exam, error) {
	snap := takeSnapshot(s.store, planner.KeyExams)

	exam := entities.Exam{
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		SubjectID: req.SubjectID,
		Notes:     req.Notes,
	}
	if userID != uuid.Nil {
		exam.UserID = userID.String()
	}
	created, err := s.exams.Add(exam)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Create(ctx, &created); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror exam create: %w", err)
		}
	}

	s.logger.Infow("Exam created", "exam_id", created.ID, "title", created.Title)
	return &created, nil
}

func (s *ExamService) UpdateExam(ctx context.Context, id string, patch planner.ExamPatch) (*entities.Exam, error) {
	snap := takeSnapshot(s.store, planner.KeyExams)

	updated, err := s.exams.Update(id, patch)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror exam update: %w", err)
		}
	}
	return &updated, nil
}

func (s *ExamService) DeleteExam(ctx context.Context, id string) error {
	snap := takeSnapshot(s.store, planner.KeyExams)

	if err := s.exams.Remove(id); err != nil {
		return err
	}

	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			snap.restore()
			return fmt.Errorf("mirror exam delete: %w", err)
		}
	}

	s.logger.Infow("Exam deleted", "exam_id", id)
	return nil
}
