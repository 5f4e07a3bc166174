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

// LectureService handles lecture operations against the local store,
// with optional mirroring to the hosted repository.
type LectureService struct {
	store    *store.Store
	lectures *planner.Lectures
	views    *planner.Views
	repo     ports.LectureRepository
	logger   *logger.Logger
}

// NewLectureService creates a new lecture service
func NewLectureService(st *store.Store, lectures *planner.Lectures, views *planner.Views, repo ports.LectureRepository, logger *logger.Logger) *LectureService {
	return &LectureService{store: st, lectures: lectures, views: views, repo: repo, logger: logger}
}

func (s *LectureService) ListLectures(ctx context.Context, subjectID string) ([]entities.Lecture, error) {
	if subjectID == "" {
		return s.lectures.List(), nil
	}
	return s.lectures.BySubject(subjectID), nil
}

func (s *LectureService) CreateLecture(ctx context.Context, userID uuid.UUID, req ports.CreateLectureRequest) (*entities.Lecture, error) {
	snap := takeSnapshot(s.store, planner.KeyLectures)

	lecture := entities.Lecture{
		Title:     req.Title,
		SubjectID: req.SubjectID,
		SectionID: req.SectionID,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if userID != uuid.Nil {
		lecture.UserID = userID.String()
	}
	created, err := s.lectures.Add(lecture)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Create(ctx, &created); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror lecture create: %w", err)
		}
	}

	s.logger.Infow("Lecture created", "lecture_id", created.ID, "subject_id", created.SubjectID)
	return &created, nil
}

func (s *LectureService) UpdateLecture(ctx context.Context, id string, patch planner.LecturePatch) (*entities.Lecture, error) {
	snap := takeSnapshot(s.store, planner.KeyLectures)

	updated, err := s.lectures.Update(id, patch)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror lecture update: %w", err)
		}
	}
	return &updated, nil
}

func (s *LectureService) CycleLectureStatus(ctx context.Context, id string) (*entities.Lecture, error) {
	snap := takeSnapshot(s.store, planner.KeyLectures)

	cycled, err := s.lectures.CycleStatus(id)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		patch := planner.LecturePatch{Status: &cycled.Status}
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror lecture status: %w", err)
		}
	}
	return &cycled, nil
}

func (s *LectureService) CycleLectureCompletion(ctx context.Context, id string) (*entities.Lecture, error) {
	snap := takeSnapshot(s.store, planner.KeyLectures)

	cycled, err := s.lectures.CycleCompletion(id)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		patch := planner.LecturePatch{Completed: &cycled.Completed}
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror lecture completion: %w", err)
		}
	}
	return &cycled, nil
}

func (s *LectureService) DeleteLecture(ctx context.Context, id string) error {
	snap := takeSnapshot(s.store, planner.KeyLectures)

	if err := s.lectures.Remove(id); err != nil {
		return err
	}

	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			snap.restore()
			return fmt.Errorf("mirror lecture delete: %w", err)
		}
	}

	s.logger.Infow("Lecture deleted", "lecture_id", id)
	return nil
}

// SubjectProgress reports how much of a subject's lecture list has
// reached at least the completed stage.
func (s *LectureService) SubjectProgress(ctx context.Context, subjectID string) (*ports.ProgressResponse, error) {
	lectures := s.lectures.BySubject(subjectID)
	done := 0
	for _, l := range lectures {
		if l.Completed == entities.StageCompleted || l.Completed == entities.StageReviewed {
			done++
		}
	}
	return &ports.ProgressResponse{
		SubjectID: subjectID,
		Total:     len(lectures),
		Done:      done,
		Percent:   s.views.LectureProgress(subjectID),
	}, nil
}
