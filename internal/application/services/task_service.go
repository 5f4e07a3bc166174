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

// TaskService handles task operations against the local store, with
// optional mirroring to the hosted repository.
type TaskService struct {
	store  *store.Store
	tasks  *planner.Tasks
	repo   ports.TaskRepository
	logger *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(st *store.Store, tasks *planner.Tasks, repo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{store: st, tasks: tasks, repo: repo, logger: logger}
}

func (s *TaskService) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	list := planner.FilterTasksBySubject(s.tasks.List(), filter.SubjectID)
	if filter.Completed != nil {
		if *filter.Completed {
			list = planner.CompletedTasks(list)
		} else {
			list = planner.ActiveTasks(list)
		}
	}
	return list, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req ports.CreateTaskRequest) (*entities.Task, error) {
	snap := takeSnapshot(s.store, planner.KeyTasks)

	task := entities.Task{
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Notes:     req.Notes,
		SubjectID: req.SubjectID,
	}
	if userID != uuid.Nil {
		task.UserID = userID.String()
	}
	created, err := s.tasks.Add(task)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Create(ctx, &created); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror task create: %w", err)
		}
	}

	s.logger.Infow("Task created", "task_id", created.ID, "title", created.Title)
	return &created, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, patch planner.TaskPatch) (*entities.Task, error) {
	snap := takeSnapshot(s.store, planner.KeyTasks)

	updated, err := s.tasks.Update(id, patch)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror task update: %w", err)
		}
	}
	return &updated, nil
}

func (s *TaskService) ToggleTask(ctx context.Context, id string) (*entities.Task, error) {
	snap := takeSnapshot(s.store, planner.KeyTasks)

	toggled, err := s.tasks.Toggle(id)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		patch := planner.TaskPatch{Completed: &toggled.Completed}
		if _, err := s.repo.Update(ctx, id, patch); err != nil {
			snap.restore()
			return nil, fmt.Errorf("mirror task toggle: %w", err)
		}
	}
	return &toggled, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	snap := takeSnapshot(s.store, planner.KeyTasks)

	if err := s.tasks.Remove(id); err != nil {
		return err
	}

	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			snap.restore()
			return fmt.Errorf("mirror task delete: %w", err)
		}
	}

	s.logger.Infow("Task deleted", "task_id", id)
	return nil
}
