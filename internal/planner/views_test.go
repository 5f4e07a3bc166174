package planner

import (
	"testing"
	"time"

	"github.com/studyplanner/core/internal/domain/entities"
)

func TestTaskEvent(t *testing.T) {
	tests := []struct {
		name      string
		task      entities.Task
		wantStart time.Time
		wantEnd   time.Time
		wantAll   bool
	}{
		{
			name:      "stated duration",
			task:      entities.Task{Date: "2024-03-01", Time: "14:00", Duration: "30"},
			wantStart: time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			name:      "default hour window",
			task:      entities.Task{Date: "2024-03-01", Time: "14:00"},
			wantStart: time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC),
		},
		{
			name:      "no time is all-day from midnight",
			task:      entities.Task{Date: "2024-03-01"},
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
			wantAll:   true,
		},
		{
			name:      "unparseable duration falls back to the hour",
			task:      entities.Task{Date: "2024-03-01", Time: "09:00", Duration: "soonish"},
			wantStart: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "unparseable time degrades to all-day",
			task:      entities.Task{Date: "2024-03-01", Time: "2pm"},
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
			wantAll:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := TaskEvent(tt.task, "#FF0000")
			if !ev.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", ev.Start, tt.wantStart)
			}
			if !ev.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", ev.End, tt.wantEnd)
			}
			if ev.AllDay != tt.wantAll {
				t.Errorf("AllDay = %v, want %v", ev.AllDay, tt.wantAll)
			}
			if ev.Kind != EventTask {
				t.Errorf("Kind = %q, want %q", ev.Kind, EventTask)
			}
		})
	}
}

func TestExamEventWindowIsFixed(t *testing.T) {
	ev := ExamEvent(entities.Exam{Date: "2024-06-10", Time: "09:00"}, "#00FF00")
	wantStart := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", ev.Start, wantStart)
	}
	if got := ev.End.Sub(ev.Start); got != ExamWindow {
		t.Errorf("window = %v, want %v", got, ExamWindow)
	}
	if ev.Kind != EventExam {
		t.Errorf("Kind = %q, want %q", ev.Kind, EventExam)
	}
}

func TestCalendarEventsResolvesColors(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")

	f.tasks.Add(entities.Task{Title: "filed", Date: "2024-03-01", SubjectID: subject.ID})
	f.tasks.Add(entities.Task{Title: "orphan", Date: "2024-03-02", SubjectID: "gone"})
	f.exams.Add(entities.Exam{Title: "midterm", Date: "2024-04-01", SubjectID: subject.ID})

	views := NewViews(f.subjects, f.tasks, f.exams, f.lectures)
	events := views.CalendarEvents()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	byTitle := make(map[string]CalendarEvent)
	for _, ev := range events {
		byTitle[ev.Title] = ev
	}
	if byTitle["filed"].Color != subject.Color {
		t.Errorf("filed color = %q, want %q", byTitle["filed"].Color, subject.Color)
	}
	if byTitle["orphan"].Color != entities.FallbackColor {
		t.Errorf("orphan color = %q, want fallback %q", byTitle["orphan"].Color, entities.FallbackColor)
	}
	if byTitle["midterm"].Kind != EventExam {
		t.Errorf("midterm kind = %q, want exam", byTitle["midterm"].Kind)
	}
}

func TestResolveSubject(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")
	views := NewViews(f.subjects, f.tasks, f.exams, f.lectures)

	got := views.ResolveSubject(subject.ID)
	if got.Name != "Physics" || got.Color != subject.Color {
		t.Errorf("ResolveSubject() = %+v", got)
	}

	missing := views.ResolveSubject("gone")
	if missing.Name != "" || missing.Color != entities.FallbackColor {
		t.Errorf("ResolveSubject(gone) = %+v, want empty name and fallback color", missing)
	}
}

func TestTaskFilters(t *testing.T) {
	tasks := []entities.Task{
		{ID: "1", SubjectID: "a", Completed: false},
		{ID: "2", SubjectID: "a", Completed: true},
		{ID: "3", SubjectID: "b", Completed: false},
	}

	if got := ActiveTasks(tasks); len(got) != 2 {
		t.Errorf("ActiveTasks() returned %d, want 2", len(got))
	}
	if got := CompletedTasks(tasks); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("CompletedTasks() = %v, want only id 2", got)
	}
	if got := FilterTasksBySubject(tasks, "a"); len(got) != 2 {
		t.Errorf("FilterTasksBySubject(a) returned %d, want 2", len(got))
	}
	if got := FilterTasksBySubject(tasks, ""); len(got) != 3 {
		t.Errorf("FilterTasksBySubject('') returned %d, want all 3", len(got))
	}
}

func TestUpcomingExams(t *testing.T) {
	exams := []entities.Exam{
		{ID: "1", Completed: true},
		{ID: "2", Completed: false},
	}
	got := UpcomingExams(exams)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("UpcomingExams() = %v, want only id 2", got)
	}
}

func TestLectureProgress(t *testing.T) {
	f := newFixture(t)
	subject := f.addSubject(t, "Physics")
	views := NewViews(f.subjects, f.tasks, f.exams, f.lectures)

	if got := views.LectureProgress(subject.ID); got != 0 {
		t.Errorf("empty subject progress = %v, want 0", got)
	}

	a, _ := f.lectures.Add(entities.Lecture{Title: "a", SubjectID: subject.ID})
	b, _ := f.lectures.Add(entities.Lecture{Title: "b", SubjectID: subject.ID})
	f.lectures.Add(entities.Lecture{Title: "c", SubjectID: subject.ID})
	f.lectures.Add(entities.Lecture{Title: "d", SubjectID: subject.ID})

	done := entities.StageCompleted
	f.lectures.Update(a.ID, LecturePatch{Completed: &done})
	reviewed := entities.StageReviewed
	f.lectures.Update(b.ID, LecturePatch{Completed: &reviewed})

	if got := views.LectureProgress(subject.ID); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}
}
