// Package planner implements the study-planner domain on top of the
// persisted collection store: typed collections, derived calendar views,
// and the lifecycle cascades that keep dependent records consistent.
package planner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/store"
)

// Storage keys, one collection per key.
const (
	KeySubjects         = "subjects"
	KeyTasks            = "tasks"
	KeyExams            = "exams"
	KeyLectures         = "lectures"
	KeySectionLabels    = "lecture_sections"
	KeyStatusSettings   = "statusSettings"
	KeyCompletionStatus = "completionStatus"
)

// SubjectPatch carries the fields of a subject update; nil means unchanged.
type SubjectPatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// TaskPatch carries the fields of a task update; nil means unchanged.
type TaskPatch struct {
	Title     *string `json:"title"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Duration  *string `json:"duration"`
	Notes     *string `json:"notes"`
	SubjectID *string `json:"subjectId"`
	Completed *bool   `json:"completed"`
}

// ExamPatch carries the fields of an exam update; nil means unchanged.
type ExamPatch struct {
	Title     *string `json:"title"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	SubjectID *string `json:"subjectId"`
	Notes     *string `json:"notes"`
	Completed *bool   `json:"completed"`
}

// LecturePatch carries the fields of a lecture update; nil means unchanged.
type LecturePatch struct {
	Title     *string                   `json:"title"`
	SectionID *string                   `json:"sectionId"`
	Status    *string                   `json:"status"`
	Notes     *string                   `json:"notes"`
	Completed *entities.CompletionStage `json:"completed"`
}

// Subjects is the typed view over the subjects collection. It owns the
// embedded sections and statuses of every subject.
type Subjects struct {
	store *store.Store
}

// NewSubjects creates the subjects collection.
func NewSubjects(st *store.Store) *Subjects {
	return &Subjects{store: st}
}

// List returns all subjects in insertion order, with default sections and
// statuses backfilled on records persisted without them.
func (c *Subjects) List() []entities.Subject {
	var list []entities.Subject
	c.store.Read(KeySubjects, &list, []entities.Subject{})
	for i := range list {
		list[i].EnsureDefaults()
	}
	return list
}

// Get returns the subject with the given id.
func (c *Subjects) Get(id string) (entities.Subject, error) {
	for _, s := range c.List() {
		if s.ID == id {
			return s, nil
		}
	}
	return entities.Subject{}, entities.ErrSubjectNotFound
}

// Add assigns an id, seeds defaults, and appends the subject.
func (c *Subjects) Add(s entities.Subject) (entities.Subject, error) {
	if err := s.Validate(); err != nil {
		return entities.Subject{}, err
	}
	s.ID = uuid.NewString()
	s.Name = strings.TrimSpace(s.Name)
	s.EnsureDefaults()

	list := append(c.List(), s)
	if err := c.store.Write(KeySubjects, list); err != nil {
		return entities.Subject{}, err
	}
	return s, nil
}

// Update replaces the matching subject in place, preserving list order.
func (c *Subjects) Update(id string, patch SubjectPatch) (entities.Subject, error) {
	list := c.List()
	var updated entities.Subject
	found := false
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Name != nil {
			list[i].Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Color != nil {
			list[i].Color = *patch.Color
		}
		if err := list[i].Validate(); err != nil {
			return entities.Subject{}, err
		}
		updated = list[i]
		found = true
		break
	}
	if !found {
		return entities.Subject{}, entities.ErrSubjectNotFound
	}
	if err := c.store.Write(KeySubjects, list); err != nil {
		return entities.Subject{}, err
	}
	return updated, nil
}

// Remove filters the subject out of the collection. Cleanup of dependent
// tasks, exams and lectures happens in the coordinator's reconciliation
// pass, which fires off the subjects-key change notification.
func (c *Subjects) Remove(id string) error {
	list := c.List()
	kept := list[:0]
	for _, s := range list {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(list) {
		return entities.ErrSubjectNotFound
	}
	return c.store.Write(KeySubjects, kept)
}

// replace writes a full subject back into the collection by id.
func (c *Subjects) replace(subject entities.Subject) error {
	list := c.List()
	for i := range list {
		if list[i].ID == subject.ID {
			list[i] = subject
			return c.store.Write(KeySubjects, list)
		}
	}
	return entities.ErrSubjectNotFound
}

// Tasks is the typed view over the tasks collection.
type Tasks struct {
	store *store.Store
}

// NewTasks creates the tasks collection.
func NewTasks(st *store.Store) *Tasks {
	return &Tasks{store: st}
}

// List returns all tasks in insertion order.
func (c *Tasks) List() []entities.Task {
	var list []entities.Task
	c.store.Read(KeyTasks, &list, []entities.Task{})
	return list
}

// Get returns the task with the given id.
func (c *Tasks) Get(id string) (entities.Task, error) {
	for _, t := range c.List() {
		if t.ID == id {
			return t, nil
		}
	}
	return entities.Task{}, entities.ErrTaskNotFound
}

// Add assigns an id and default field values before appending.
func (c *Tasks) Add(t entities.Task) (entities.Task, error) {
	if err := t.Validate(); err != nil {
		return entities.Task{}, err
	}
	t.ID = uuid.NewString()
	t.Title = strings.TrimSpace(t.Title)
	t.Completed = false

	list := append(c.List(), t)
	if err := c.store.Write(KeyTasks, list); err != nil {
		return entities.Task{}, err
	}
	return t, nil
}

// Update replaces the matching task in place, preserving list order.
func (c *Tasks) Update(id string, patch TaskPatch) (entities.Task, error) {
	list := c.List()
	var updated entities.Task
	found := false
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Title != nil {
			list[i].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Date != nil {
			list[i].Date = *patch.Date
		}
		if patch.Time != nil {
			list[i].Time = *patch.Time
		}
		if patch.Duration != nil {
			list[i].Duration = *patch.Duration
		}
		if patch.Notes != nil {
			list[i].Notes = *patch.Notes
		}
		if patch.SubjectID != nil {
			list[i].SubjectID = *patch.SubjectID
		}
		if patch.Completed != nil {
			list[i].Completed = *patch.Completed
		}
		if err := list[i].Validate(); err != nil {
			return entities.Task{}, err
		}
		updated = list[i]
		found = true
		break
	}
	if !found {
		return entities.Task{}, entities.ErrTaskNotFound
	}
	if err := c.store.Write(KeyTasks, list); err != nil {
		return entities.Task{}, err
	}
	return updated, nil
}

// Toggle flips a task's completed flag.
func (c *Tasks) Toggle(id string) (entities.Task, error) {
	t, err := c.Get(id)
	if err != nil {
		return entities.Task{}, err
	}
	completed := !t.Completed
	return c.Update(id, TaskPatch{Completed: &completed})
}

// Remove filters the task out of the collection.
func (c *Tasks) Remove(id string) error {
	list := c.List()
	kept := list[:0]
	for _, t := range list {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(list) {
		return entities.ErrTaskNotFound
	}
	return c.store.Write(KeyTasks, kept)
}

// Exams is the typed view over the exams collection.
type Exams struct {
	store *store.Store
}

// NewExams creates the exams collection.
func NewExams(st *store.Store) *Exams {
	return &Exams{store: st}
}

// List returns all exams in insertion order.
func (c *Exams) List() []entities.Exam {
	var list []entities.Exam
	c.store.Read(KeyExams, &list, []entities.Exam{})
	return list
}

// Get returns the exam with the given id.
func (c *Exams) Get(id string) (entities.Exam, error) {
	for _, e := range c.List() {
		if e.ID == id {
			return e, nil
		}
	}
	return entities.Exam{}, entities.ErrExamNotFound
}

// Add assigns an id and default field values before appending.
func (c *Exams) Add(e entities.Exam) (entities.Exam, error) {
	if err := e.Validate(); err != nil {
		return entities.Exam{}, err
	}
	e.ID = uuid.NewString()
	e.Title = strings.TrimSpace(e.Title)
	e.Completed = false

	list := append(c.List(), e)
	if err := c.store.Write(KeyExams, list); err != nil {
		return entities.Exam{}, err
	}
	return e, nil
}

// Update replaces the matching exam in place, preserving list order.
func (c *Exams) Update(id string, patch ExamPatch) (entities.Exam, error) {
	list := c.List()
	var updated entities.Exam
	found := false
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Title != nil {
			list[i].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Date != nil {
			list[i].Date = *patch.Date
		}
		if patch.Time != nil {
			list[i].Time = *patch.Time
		}
		if patch.SubjectID != nil {
			list[i].SubjectID = *patch.SubjectID
		}
		if patch.Notes != nil {
			list[i].Notes = *patch.Notes
		}
		if patch.Completed != nil {
			list[i].Completed = *patch.Completed
		}
		if err := list[i].Validate(); err != nil {
			return entities.Exam{}, err
		}
		updated = list[i]
		found = true
		break
	}
	if !found {
		return entities.Exam{}, entities.ErrExamNotFound
	}
	if err := c.store.Write(KeyExams, list); err != nil {
		return entities.Exam{}, err
	}
	return updated, nil
}

// Remove filters the exam out of the collection.
func (c *Exams) Remove(id string) error {
	list := c.List()
	kept := list[:0]
	for _, e := range list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(list) {
		return entities.ErrExamNotFound
	}
	return c.store.Write(KeyExams, kept)
}

// Lectures is the typed view over the lectures collection. It needs the
// subjects collection to resolve the status set a lecture cycles through.
type Lectures struct {
	store    *store.Store
	subjects *Subjects
}

// NewLectures creates the lectures collection.
func NewLectures(st *store.Store, subjects *Subjects) *Lectures {
	return &Lectures{store: st, subjects: subjects}
}

// List returns all lectures in insertion order.
func (c *Lectures) List() []entities.Lecture {
	var list []entities.Lecture
	c.store.Read(KeyLectures, &list, []entities.Lecture{})
	return list
}

// BySubject returns the lectures of one subject, preserving order.
func (c *Lectures) BySubject(subjectID string) []entities.Lecture {
	var out []entities.Lecture
	for _, l := range c.List() {
		if l.SubjectID == subjectID {
			out = append(out, l)
		}
	}
	return out
}

// Get returns the lecture with the given id.
func (c *Lectures) Get(id string) (entities.Lecture, error) {
	for _, l := range c.List() {
		if l.ID == id {
			return l, nil
		}
	}
	return entities.Lecture{}, entities.ErrLectureNotFound
}

// Add assigns an id and defaults the status to the subject's first
// configured status and the completion stage to not started.
func (c *Lectures) Add(l entities.Lecture) (entities.Lecture, error) {
	if err := l.Validate(); err != nil {
		return entities.Lecture{}, err
	}
	subject, err := c.subjects.Get(l.SubjectID)
	if err != nil {
		return entities.Lecture{}, err
	}
	if l.SectionID != "" {
		if _, ok := subject.SectionByID(l.SectionID); !ok {
			return entities.Lecture{}, entities.ErrSectionNotFound
		}
	}
	l.ID = uuid.NewString()
	l.Title = strings.TrimSpace(l.Title)
	if l.Status == "" {
		l.Status = subject.FirstStatusName()
	}
	if l.Completed == "" {
		l.Completed = entities.StageNotStarted
	}

	list := append(c.List(), l)
	if err := c.store.Write(KeyLectures, list); err != nil {
		return entities.Lecture{}, err
	}
	return l, nil
}

// Update replaces the matching lecture in place, preserving list order.
func (c *Lectures) Update(id string, patch LecturePatch) (entities.Lecture, error) {
	list := c.List()
	var updated entities.Lecture
	found := false
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Title != nil {
			list[i].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.SectionID != nil {
			list[i].SectionID = *patch.SectionID
		}
		if patch.Status != nil {
			list[i].Status = *patch.Status
		}
		if patch.Notes != nil {
			list[i].Notes = *patch.Notes
		}
		if patch.Completed != nil {
			list[i].Completed = *patch.Completed
		}
		if err := list[i].Validate(); err != nil {
			return entities.Lecture{}, err
		}
		updated = list[i]
		found = true
		break
	}
	if !found {
		return entities.Lecture{}, entities.ErrLectureNotFound
	}
	if err := c.store.Write(KeyLectures, list); err != nil {
		return entities.Lecture{}, err
	}
	return updated, nil
}

// CycleStatus advances the lecture's status through its subject's ordered
// status keys, wrapping at the end. An unknown current status lands on
// the first key.
func (c *Lectures) CycleStatus(id string) (entities.Lecture, error) {
	l, err := c.Get(id)
	if err != nil {
		return entities.Lecture{}, err
	}
	subject, err := c.subjects.Get(l.SubjectID)
	if err != nil {
		return entities.Lecture{}, err
	}
	next := entities.CycleStatus(l.Status, subject.StatusKeys())
	return c.Update(id, LecturePatch{Status: &next})
}

// CycleCompletion advances the lecture through the fixed
// not_started, completed, reviewed cycle.
func (c *Lectures) CycleCompletion(id string) (entities.Lecture, error) {
	l, err := c.Get(id)
	if err != nil {
		return entities.Lecture{}, err
	}
	next := l.Completed.Next()
	return c.Update(id, LecturePatch{Completed: &next})
}

// Remove filters the lecture out of the collection.
func (c *Lectures) Remove(id string) error {
	list := c.List()
	kept := list[:0]
	for _, l := range list {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(list) {
		return entities.ErrLectureNotFound
	}
	return c.store.Write(KeyLectures, kept)
}

// replaceAll writes the full lecture list back; used by cascades.
func (c *Lectures) replaceAll(list []entities.Lecture) error {
	return c.store.Write(KeyLectures, list)
}
