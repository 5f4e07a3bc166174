package planner

import (
	"strconv"
	"time"

	"github.com/studyplanner/core/internal/domain/entities"
)

// Default calendar windows. Tasks without a stated duration get one hour;
// exams carry no duration field and always get two.
const (
	DefaultTaskWindow = 60 * time.Minute
	ExamWindow        = 120 * time.Minute
)

// EventKind tags a calendar event with its source collection.
type EventKind string

const (
	EventTask EventKind = "task"
	EventExam EventKind = "exam"
)

// CalendarEvent is a derived, never-persisted projection of a task or
// exam onto the calendar.
type CalendarEvent struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Kind   EventKind `json:"type"`
	AllDay bool      `json:"allDay"`
	Color  string    `json:"color"`
}

// SubjectRef is the resolved name and color of a subject reference, with
// defined fallbacks when the subject no longer exists.
type SubjectRef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Views computes read-only projections from the current collection
// state. Nothing here mutates or caches.
type Views struct {
	subjects *Subjects
	tasks    *Tasks
	exams    *Exams
	lectures *Lectures
}

// NewViews creates the derived view engine.
func NewViews(subjects *Subjects, tasks *Tasks, exams *Exams, lectures *Lectures) *Views {
	return &Views{subjects: subjects, tasks: tasks, exams: exams, lectures: lectures}
}

// ResolveSubject looks the subject up by id. A missing subject resolves
// to an empty name and the neutral fallback color rather than failing.
func (v *Views) ResolveSubject(id string) SubjectRef {
	if id != "" {
		for _, s := range v.subjects.List() {
			if s.ID == id {
				return SubjectRef{Name: s.Name, Color: s.Color}
			}
		}
	}
	return SubjectRef{Name: "", Color: entities.FallbackColor}
}

// TaskEvent derives the calendar window for a task.
func TaskEvent(t entities.Task, color string) CalendarEvent {
	start, allDay := eventStart(t.Date, t.Time)
	window := DefaultTaskWindow
	if t.Duration != "" {
		if minutes, err := strconv.ParseFloat(t.Duration, 64); err == nil {
			window = time.Duration(minutes * float64(time.Minute))
		}
	}
	return CalendarEvent{
		ID:     t.ID,
		Title:  t.Title,
		Start:  start,
		End:    start.Add(window),
		Kind:   EventTask,
		AllDay: allDay,
		Color:  color,
	}
}

// ExamEvent derives the calendar window for an exam. The window is fixed
// regardless of any stated duration.
func ExamEvent(e entities.Exam, color string) CalendarEvent {
	start, allDay := eventStart(e.Date, e.Time)
	return CalendarEvent{
		ID:     e.ID,
		Title:  e.Title,
		Start:  start,
		End:    start.Add(ExamWindow),
		Kind:   EventExam,
		AllDay: allDay,
		Color:  color,
	}
}

// CalendarEvents projects every task and exam onto the calendar,
// resolving subject colors with the gray fallback.
func (v *Views) CalendarEvents() []CalendarEvent {
	subjects := v.subjects.List()
	color := func(subjectID string) string {
		for _, s := range subjects {
			if s.ID == subjectID {
				return s.Color
			}
		}
		return entities.FallbackColor
	}

	var events []CalendarEvent
	for _, t := range v.tasks.List() {
		events = append(events, TaskEvent(t, color(t.SubjectID)))
	}
	for _, e := range v.exams.List() {
		events = append(events, ExamEvent(e, color(e.SubjectID)))
	}
	return events
}

// eventStart combines the calendar date with the optional clock time.
// Without a time the event starts at midnight and is all-day.
func eventStart(date, clock string) (time.Time, bool) {
	day, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		return time.Time{}, true
	}
	if clock == "" {
		return day, true
	}
	t, err := time.Parse(entities.TimeLayout, clock)
	if err != nil {
		return day, true
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), false
}

// ActiveTasks returns the tasks not yet completed.
func ActiveTasks(tasks []entities.Task) []entities.Task {
	var out []entities.Task
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// CompletedTasks returns the tasks marked completed.
func CompletedTasks(tasks []entities.Task) []entities.Task {
	var out []entities.Task
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// FilterTasksBySubject keeps tasks matching the selected subject; an
// empty selection keeps everything.
func FilterTasksBySubject(tasks []entities.Task, subjectID string) []entities.Task {
	if subjectID == "" {
		return tasks
	}
	var out []entities.Task
	for _, t := range tasks {
		if t.SubjectID == subjectID {
			out = append(out, t)
		}
	}
	return out
}

// UpcomingExams returns the exams not yet completed.
func UpcomingExams(exams []entities.Exam) []entities.Exam {
	var out []entities.Exam
	for _, e := range exams {
		if !e.Completed {
			out = append(out, e)
		}
	}
	return out
}

// LectureProgress returns the fraction of a subject's lectures that have
// reached at least the completed stage, as a percentage.
func (v *Views) LectureProgress(subjectID string) float64 {
	lectures := v.lectures.BySubject(subjectID)
	if len(lectures) == 0 {
		return 0
	}
	done := 0
	for _, l := range lectures {
		if l.Completed == entities.StageCompleted || l.Completed == entities.StageReviewed {
			done++
		}
	}
	return float64(done) / float64(len(lectures)) * 100
}
