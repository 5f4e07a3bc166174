package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
	"github.com/studyplanner/core/internal/store"
)

var errMirror = errors.New("hosted backend down")

// failingTaskRepo rejects every write, for rollback tests.
type failingTaskRepo struct{}

func (failingTaskRepo) GetAll(context.Context, uuid.UUID) ([]entities.Task, error) {
	return nil, errMirror
}
func (failingTaskRepo) Create(context.Context, *entities.Task) (*entities.Task, error) {
	return nil, errMirror
}
func (failingTaskRepo) Update(context.Context, string, planner.TaskPatch) (*entities.Task, error) {
	return nil, errMirror
}
func (failingTaskRepo) Delete(context.Context, string) error { return errMirror }

func newTaskFixture(t *testing.T) (*store.Store, *planner.Tasks) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "planner.json"), logger.NewNop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	return st, planner.NewTasks(st)
}

func TestCreateTaskLocalOnly(t *testing.T) {
	st, tasks := newTaskFixture(t)
	svc := NewTaskService(st, tasks, nil, logger.NewNop())

	created, err := svc.CreateTask(context.Background(), uuid.Nil, ports.CreateTaskRequest{
		Title: "Read ch. 3", Date: "2024-03-01",
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created task has no id")
	}
	if len(tasks.List()) != 1 {
		t.Error("task missing from local store")
	}
}

func TestCreateTaskRollsBackOnMirrorFailure(t *testing.T) {
	st, tasks := newTaskFixture(t)
	svc := NewTaskService(st, tasks, failingTaskRepo{}, logger.NewNop())

	_, err := svc.CreateTask(context.Background(), uuid.New(), ports.CreateTaskRequest{
		Title: "Read ch. 3", Date: "2024-03-01",
	})
	if !errors.Is(err, errMirror) {
		t.Fatalf("CreateTask() error = %v, want mirror failure", err)
	}
	if got := len(tasks.List()); got != 0 {
		t.Errorf("local store has %d tasks after rollback, want 0", got)
	}
}

func TestToggleTaskRollsBackOnMirrorFailure(t *testing.T) {
	st, tasks := newTaskFixture(t)
	seeded, err := tasks.Add(entities.Task{Title: "hw", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	svc := NewTaskService(st, tasks, failingTaskRepo{}, logger.NewNop())

	if _, err := svc.ToggleTask(context.Background(), seeded.ID); !errors.Is(err, errMirror) {
		t.Fatalf("ToggleTask() error = %v, want mirror failure", err)
	}

	got, err := tasks.Get(seeded.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Completed {
		t.Error("toggle survived the failed mirror write")
	}
}

func TestDeleteTaskRollsBackOnMirrorFailure(t *testing.T) {
	st, tasks := newTaskFixture(t)
	seeded, _ := tasks.Add(entities.Task{Title: "hw", Date: "2024-03-01"})
	svc := NewTaskService(st, tasks, failingTaskRepo{}, logger.NewNop())

	if err := svc.DeleteTask(context.Background(), seeded.ID); !errors.Is(err, errMirror) {
		t.Fatalf("DeleteTask() error = %v, want mirror failure", err)
	}
	if _, err := tasks.Get(seeded.ID); err != nil {
		t.Error("task missing from local store after rollback")
	}
}

func TestListTasksFilters(t *testing.T) {
	st, tasks := newTaskFixture(t)
	svc := NewTaskService(st, tasks, nil, logger.NewNop())

	tasks.Add(entities.Task{Title: "a", Date: "2024-03-01", SubjectID: "phys"})
	done, _ := tasks.Add(entities.Task{Title: "b", Date: "2024-03-02", SubjectID: "phys"})
	tasks.Add(entities.Task{Title: "c", Date: "2024-03-03", SubjectID: "math"})
	tasks.Toggle(done.ID)

	completed := true
	tests := []struct {
		name   string
		filter ports.TaskFilter
		want   int
	}{
		{"all", ports.TaskFilter{}, 3},
		{"by subject", ports.TaskFilter{SubjectID: "phys"}, 2},
		{"completed only", ports.TaskFilter{Completed: &completed}, 1},
		{"subject and completed", ports.TaskFilter{SubjectID: "math", Completed: &completed}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListTasks(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListTasks() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListTasks() returned %d, want %d", len(got), tt.want)
			}
		})
	}
}
