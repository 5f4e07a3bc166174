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

// SubjectService handles subject, section and status operations. The
// local store is the source of truth; when a hosted repository is wired
// in, every local write is mirrored and rolled back if the mirror write
// fails. A nil repository means local-only mode.
type SubjectService struct {
	store       *store.Store
	subjects    *planner.Subjects
	lectures    *planner.Lectures
	coord       *planner.Coordinator
	repo        ports.SubjectRepository
	lectureRepo ports.LectureRepository
	logger      *logger.Logger
}

// NewSubjectService creates a new subject service
func NewSubjectService(st *store.Store, subjects *planner.Subjects, lectures *planner.Lectures, coord *planner.Coordinator, repo ports.SubjectRepository, lectureRepo ports.LectureRepository, logger *logger.Logger) *SubjectService {
	return &SubjectService{
		store:       st,
		subjects:    subjects,
		lectures:    lectures,
		coord:       coord,
		repo:        repo,
		lectureRepo: lectureRepo,
		logger:      logger,
	}
}

func (s *SubjectService) ListSubjects(ctx context.Context) ([]entities.Subject, error) {
	return s.subjects.List(), nil
}

func (s *SubjectService) GetSubject(ctx context.Context, id string) (*entities.Subject, error) {
	subject, err := s.subjects.Get(id)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectService) CreateSubject(ctx context.Context, userID uuid.UUID, req ports.CreateSubjectRequest) (*entities.Subject, error) {
	snap := takeSnapshot(s.store, planner.KeySubjects)

	subject := entities.Subject{Name: req.Name, Color: req.Color}
	if userID != uuid.Nil {
		subject.UserID = userID.String()
	}
	created, err := s.subjects.Add(subject)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Create(ctx, &created); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror subject create: %w", err)
		}
	}

	s.logger.Infow("Subject created", "subject_id", created.ID, "name", created.Name)
	return &created, nil
}

func (s *SubjectService) UpdateSubject(ctx context.Context, id string, patch planner.SubjectPatch) (*entities.Subject, error) {
	snap := takeSnapshot(s.store, planner.KeySubjects)

	updated, err := s.subjects.Update(id, patch)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror subject update: %w", err)
		}
	}
	return &updated, nil
}

// DeleteSubject removes the subject; the reconciliation pass drops the
// tasks, exams and lectures referencing it. The hosted side cascades the
// same way through its foreign keys.
func (s *SubjectService) DeleteSubject(ctx context.Context, id string) error {
	snap := takeSnapshot(s.store, planner.KeySubjects, planner.KeyTasks, planner.KeyExams, planner.KeyLectures)

	if err := s.coord.DeleteSubject(id); err != nil {
		return err
	}

	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			snap.restore()
			return fmt.Errorf("mirror subject delete: %w", err)
		}
	}

	s.logger.Infow("Subject deleted", "subject_id", id)
	return nil
}

func (s *SubjectService) AddSection(ctx context.Context, subjectID string, req ports.SectionRequest) (*entities.Section, error) {
	snap := takeSnapshot(s.store, planner.KeySubjects, planner.KeySectionLabels)

	section, err := s.coord.AddSection(subjectID, req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.mirrorSubject(ctx, subjectID); err != nil {
		snap.restore()
		return nil, err
	}
	return &section, nil
}

func (s *SubjectService) RenameSection(ctx context.Context, subjectID, sectionID string, req ports.SectionRequest) error {
	snap := takeSnapshot(s.store, planner.KeySubjects, planner.KeySectionLabels)

	if err := s.coord.RenameSection(subjectID, sectionID, req.Name); err != nil {
		return err
	}

	if err := s.mirrorSubject(ctx, subjectID); err != nil {
		snap.restore()
		return err
	}
	return nil
}

func (s *SubjectService) DeleteSection(ctx context.Context, subjectID, sectionID string) error {
	snap := takeSnapshot(s.store, planner.KeySubjects, planner.KeyLectures, planner.KeySectionLabels)

	affected := affectedLectureIDs(s.lectures.List(), func(l entities.Lecture) bool {
		return l.SectionID == sectionID
	})

	if err := s.coord.DeleteSection(subjectID, sectionID); err != nil {
		return err
	}

	if err := s.mirrorSubject(ctx, subjectID); err != nil {
		snap.restore()
		return err
	}
	if err := s.mirrorLectures(ctx, affected); err != nil {
		snap.restore()
		return err
	}
	return nil
}

func (s *SubjectService) AddStatus(ctx context.Context, subjectID string, req ports.StatusRequest) error {
	snap := takeSnapshot(s.store, planner.KeySubjects)

	if err := s.coord.AddStatus(subjectID, entities.Status{Name: req.Name, Color: req.Color}); err != nil {
		return err
	}

	if err := s.mirrorSubject(ctx, subjectID); err != nil {
		snap.restore()
		return err
	}
	return nil
}

func (s *SubjectService) RecolorStatus(ctx context.Context, subjectID, name string, req ports.RecolorStatusRequest) error {
	snap := takeSnapshot(s.store, planner.KeySubjects)

	if err := s.coord.RecolorStatus(subjectID, name, req.Color); err != nil {
		return err
	}

	if err := s.mirrorSubject(ctx, subjectID); err != nil {
		snap.restore()
		return err
	}
	return nil
}

func (s *SubjectService) DeleteStatus(ctx context.Context, subjectID, name string) error {
	snap := takeSnapshot(s.store, planner.KeySubjects, planner.KeyLectures)

	affected := affectedLectureIDs(s.lectures.List(), func(l entities.Lecture) bool {
		return l.SubjectID == subjectID && l.Status == name
	})

	if err := s.coord.DeleteStatus(subjectID, name); err != nil {
		return err
	}

	if err := s.mirrorSubject(ctx, subjectID); err != nil {
		snap.restore()
		return err
	}
	if err := s.mirrorLectures(ctx, affected); err != nil {
		snap.restore()
		return err
	}
	return nil
}

// mirrorSubject pushes the subject's current local state, embedded
// sections and statuses included, to the hosted row.
func (s *SubjectService) mirrorSubject(ctx context.Context, subjectID string) error {
	if s.repo == nil {
		return nil
	}
	subject, err := s.subjects.Get(subjectID)
	if err != nil {
		return err
	}
	if err := s.repo.Replace(ctx, &subject); err != nil {
		return fmt.Errorf("mirror subject: %w", err)
	}
	return nil
}

// mirrorLectures pushes the current local state of cascade-touched
// lectures to their hosted rows.
func (s *SubjectService) mirrorLectures(ctx context.Context, ids []string) error {
	if s.lectureRepo == nil || len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		l, err := s.lectures.Get(id)
		if err != nil {
			// Dropped by a concurrent cascade; nothing to push.
			continue
		}
		patch := planner.LecturePatch{
			SectionID: &l.SectionID,
			Status:    &l.Status,
		}
		if _, err := s.lectureRepo.Update(ctx, id, patch); err != nil {
			return fmt.Errorf("mirror lecture %s: %w", id, err)
		}
	}
	return nil
}

func affectedLectureIDs(lectures []entities.Lecture, match func(entities.Lecture) bool) []string {
	var ids []string
	for _, l := range lectures {
		if match(l) {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
