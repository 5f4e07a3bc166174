package planner

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/store"
)

type fixture struct {
	store    *store.Store
	subjects *Subjects
	tasks    *Tasks
	exams    *Exams
	lectures *Lectures
	settings *Settings
	coord    *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "planner.json"), logger.NewNop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}

	subjects := NewSubjects(st)
	tasks := NewTasks(st)
	exams := NewExams(st)
	lectures := NewLectures(st, subjects)
	settings := NewSettings(st)
	coord := NewCoordinator(st, subjects, tasks, exams, lectures, settings, logger.NewNop())
	t.Cleanup(coord.Close)

	return &fixture{
		store:    st,
		subjects: subjects,
		tasks:    tasks,
		exams:    exams,
		lectures: lectures,
		settings: settings,
		coord:    coord,
	}
}

func (f *fixture) addSubject(t *testing.T, name string) entities.Subject {
	t.Helper()
	s, err := f.subjects.Add(entities.Subject{Name: name, Color: "#FF0000"})
	if err != nil {
		t.Fatalf("subjects.Add(%q) error = %v", name, err)
	}
	return s
}

func TestSubjectsAddSeedsDefaults(t *testing.T) {
	f := newFixture(t)

	s := f.addSubject(t, "Math")
	if s.ID == "" {
		t.Error("expected generated id")
	}
	if len(s.Statuses) != 3 {
		t.Errorf("expected default statuses, got %d", len(s.Statuses))
	}
	if s.Sections == nil {
		t.Error("expected empty sections slice, got nil")
	}
}

func TestSubjectsUpdatePreservesOrder(t *testing.T) {
	f := newFixture(t)

	a := f.addSubject(t, "Algebra")
	b := f.addSubject(t, "Biology")
	c := f.addSubject(t, "Chemistry")

	name := "Botany"
	if _, err := f.subjects.Update(b.ID, SubjectPatch{Name: &name}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	list := f.subjects.List()
	if len(list) != 3 {
		t.Fatalf("got %d subjects, want 3", len(list))
	}
	wantOrder := []string{a.ID, b.ID, c.ID}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, list[i].ID, want)
		}
	}
	if list[1].Name != "Botany" {
		t.Errorf("updated name = %q, want Botany", list[1].Name)
	}
}

func TestSubjectsUpdateUnknownID(t *testing.T) {
	f := newFixture(t)
	name := "x"
	if _, err := f.subjects.Update("nope", SubjectPatch{Name: &name}); !errors.Is(err, entities.ErrSubjectNotFound) {
		t.Errorf("Update() error = %v, want ErrSubjectNotFound", err)
	}
}

func TestTasksAddAndToggle(t *testing.T) {
	f := newFixture(t)

	task, err := f.tasks.Add(entities.Task{Title: "Read ch. 3", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task.Completed {
		t.Error("new task should start incomplete")
	}

	toggled, err := f.tasks.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !toggled.Completed {
		t.Error("Toggle() did not complete the task")
	}

	back, err := f.tasks.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if back.Completed {
		t.Error("second Toggle() did not clear the flag")
	}
}

func TestTasksAddValidates(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		task    entities.Task
		wantErr error
	}{
		{"missing title", entities.Task{Date: "2024-03-01"}, entities.ErrTitleRequired},
		{"missing date", entities.Task{Title: "x"}, entities.ErrDateRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.tasks.Add(tt.task); !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTasksRemove(t *testing.T) {
	f := newFixture(t)

	task, _ := f.tasks.Add(entities.Task{Title: "a", Date: "2024-01-01"})
	keep, _ := f.tasks.Add(entities.Task{Title: "b", Date: "2024-01-02"})

	if err := f.tasks.Remove(task.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := f.tasks.Remove(task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("second Remove() error = %v, want ErrTaskNotFound", err)
	}

	list := f.tasks.List()
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Errorf("List() = %v, want only %s", list, keep.ID)
	}
}

func TestExamsAddRequiresSubject(t *testing.T) {
	f := newFixture(t)

	if _, err := f.exams.Add(entities.Exam{Title: "Final", Date: "2024-06-01"}); !errors.Is(err, entities.ErrSubjectRequired) {
		t.Errorf("Add() error = %v, want ErrSubjectRequired", err)
	}
}

func TestLecturesAddDefaultsStatusAndStage(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")

	lecture, err := f.lectures.Add(entities.Lecture{Title: "Kinematics", SubjectID: subject.ID})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if lecture.Status != "not_started" {
		t.Errorf("default status = %q, want not_started", lecture.Status)
	}
	if lecture.Completed != entities.StageNotStarted {
		t.Errorf("default stage = %q, want %q", lecture.Completed, entities.StageNotStarted)
	}
}

func TestLecturesAddRejectsUnknownSection(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")

	_, err := f.lectures.Add(entities.Lecture{Title: "x", SubjectID: subject.ID, SectionID: "nope"})
	if !errors.Is(err, entities.ErrSectionNotFound) {
		t.Errorf("Add() error = %v, want ErrSectionNotFound", err)
	}
}

func TestLecturesAddRejectsUnknownSubject(t *testing.T) {
	f := newFixture(t)

	_, err := f.lectures.Add(entities.Lecture{Title: "x", SubjectID: "nope"})
	if !errors.Is(err, entities.ErrSubjectNotFound) {
		t.Errorf("Add() error = %v, want ErrSubjectNotFound", err)
	}
}

func TestLecturesCycleStatus(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")
	lecture, _ := f.lectures.Add(entities.Lecture{Title: "x", SubjectID: subject.ID})

	// Defaults walk the seeded set in order and wrap.
	want := []string{"completed", "review", "not_started"}
	for _, expected := range want {
		cycled, err := f.lectures.CycleStatus(lecture.ID)
		if err != nil {
			t.Fatalf("CycleStatus() error = %v", err)
		}
		if cycled.Status != expected {
			t.Fatalf("CycleStatus() = %q, want %q", cycled.Status, expected)
		}
	}
}

func TestLecturesCycleStatusUnknownCurrentLandsOnFirst(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")
	lecture, _ := f.lectures.Add(entities.Lecture{Title: "x", SubjectID: subject.ID, Status: "stale"})

	cycled, err := f.lectures.CycleStatus(lecture.ID)
	if err != nil {
		t.Fatalf("CycleStatus() error = %v", err)
	}
	if cycled.Status != "not_started" {
		t.Errorf("CycleStatus() from unknown = %q, want not_started", cycled.Status)
	}
}

func TestLecturesCycleCompletion(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")
	lecture, _ := f.lectures.Add(entities.Lecture{Title: "x", SubjectID: subject.ID})

	want := []entities.CompletionStage{entities.StageCompleted, entities.StageReviewed, entities.StageNotStarted}
	for _, expected := range want {
		cycled, err := f.lectures.CycleCompletion(lecture.ID)
		if err != nil {
			t.Fatalf("CycleCompletion() error = %v", err)
		}
		if cycled.Completed != expected {
			t.Fatalf("CycleCompletion() = %q, want %q", cycled.Completed, expected)
		}
	}
}

func TestLecturesBySubject(t *testing.T) {
	f := newFixture(t)
	phys := f.addSubject(t, "Physics")
	math := f.addSubject(t, "Math")

	f.lectures.Add(entities.Lecture{Title: "a", SubjectID: phys.ID})
	f.lectures.Add(entities.Lecture{Title: "b", SubjectID: math.ID})
	f.lectures.Add(entities.Lecture{Title: "c", SubjectID: phys.ID})

	got := f.lectures.BySubject(phys.ID)
	if len(got) != 2 {
		t.Fatalf("BySubject() returned %d lectures, want 2", len(got))
	}
	if got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("BySubject() order = %q, %q; want a, c", got[0].Title, got[1].Title)
	}
}

func TestSettingsSeedsBuiltins(t *testing.T) {
	f := newFixture(t)

	m := f.settings.StatusSettings()
	for _, key := range []string{"unknown", "easy", "medium", "hard", "very_hard"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing built-in status setting %q", key)
		}
	}

	c := f.settings.CompletionSettings()
	for _, key := range []string{"not_started", "completed", "reviewed"} {
		if _, ok := c[key]; !ok {
			t.Errorf("missing built-in completion setting %q", key)
		}
	}
}

func TestSettingsBuiltinProtected(t *testing.T) {
	f := newFixture(t)

	if err := f.settings.RemoveStatusSetting("easy"); !errors.Is(err, entities.ErrBuiltinSetting) {
		t.Errorf("RemoveStatusSetting(easy) error = %v, want ErrBuiltinSetting", err)
	}

	// User-added entries come and go freely.
	if err := f.settings.SetStatusSetting("brutal", entities.StatusSetting{Label: "Brutal"}); err != nil {
		t.Fatalf("SetStatusSetting() error = %v", err)
	}
	if err := f.settings.RemoveStatusSetting("brutal"); err != nil {
		t.Errorf("RemoveStatusSetting(brutal) error = %v", err)
	}
}
