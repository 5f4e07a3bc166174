package planner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/store"
)

// Coordinator owns the cascade rules: compensating writes to dependent
// collections when a parent subject, section or status is deleted or
// renamed. Cascades run synchronously inside the triggering call; the
// subject-delete cleanup additionally runs as a reconciliation pass on
// every change to the subjects collection.
type Coordinator struct {
	subjects *Subjects
	tasks    *Tasks
	exams    *Exams
	lectures *Lectures
	settings *Settings
	log      *logger.Logger

	unsubscribe func()
}

// NewCoordinator wires the cascade rules and subscribes the
// reconciliation pass to subjects-collection changes.
func NewCoordinator(st *store.Store, subjects *Subjects, tasks *Tasks, exams *Exams, lectures *Lectures, settings *Settings, log *logger.Logger) *Coordinator {
	c := &Coordinator{
		subjects: subjects,
		tasks:    tasks,
		exams:    exams,
		lectures: lectures,
		settings: settings,
		log:      log.WithComponent("lifecycle"),
	}
	c.unsubscribe = st.Subscribe(KeySubjects, func(string) { c.Reconcile() })
	return c
}

// Close detaches the coordinator from the store.
func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// DeleteSubject removes the subject; the write triggers the
// reconciliation pass that drops the records referencing it.
func (c *Coordinator) DeleteSubject(id string) error {
	return c.subjects.Remove(id)
}

// Reconcile drops tasks, exams and lectures whose subject reference is
// set but no longer resolves. Records with no subject reference are
// always kept.
func (c *Coordinator) Reconcile() {
	live := make(map[string]bool)
	for _, s := range c.subjects.List() {
		live[s.ID] = true
	}

	tasks := c.tasks.List()
	keptTasks := tasks[:0]
	for _, t := range tasks {
		if t.SubjectID == "" || live[t.SubjectID] {
			keptTasks = append(keptTasks, t)
		}
	}
	if len(keptTasks) != len(tasks) {
		c.log.Infow("Dropping tasks with unresolvable subject", "count", len(tasks)-len(keptTasks))
		c.tasks.store.Write(KeyTasks, keptTasks)
	}

	exams := c.exams.List()
	keptExams := exams[:0]
	for _, e := range exams {
		if e.SubjectID == "" || live[e.SubjectID] {
			keptExams = append(keptExams, e)
		}
	}
	if len(keptExams) != len(exams) {
		c.log.Infow("Dropping exams with unresolvable subject", "count", len(exams)-len(keptExams))
		c.exams.store.Write(KeyExams, keptExams)
	}

	lectures := c.lectures.List()
	keptLectures := lectures[:0]
	for _, l := range lectures {
		if l.SubjectID == "" || live[l.SubjectID] {
			keptLectures = append(keptLectures, l)
		}
	}
	if len(keptLectures) != len(lectures) {
		c.log.Infow("Dropping lectures with unresolvable subject", "count", len(lectures)-len(keptLectures))
		c.lectures.replaceAll(keptLectures)
	}
}

// AddSection appends a named section to the subject and records the label
// on the shared suggestion list.
func (c *Coordinator) AddSection(subjectID, name string) (entities.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Section{}, entities.ErrNameRequired
	}
	subject, err := c.subjects.Get(subjectID)
	if err != nil {
		return entities.Section{}, err
	}
	for _, sec := range subject.Sections {
		if sec.Name == name {
			return entities.Section{}, entities.ErrDuplicateSection
		}
	}

	section := entities.Section{ID: uuid.NewString(), Name: name}
	subject.Sections = append(subject.Sections, section)
	if err := c.subjects.replace(subject); err != nil {
		return entities.Section{}, err
	}
	c.settings.AddSectionLabel(name)
	return section, nil
}

// RenameSection renames the section and keeps the shared label list in
// step. Lectures reference sections by id, so their resolved label
// follows without a rewrite. An empty or unchanged name rejects the
// rename before anything is touched.
func (c *Coordinator) RenameSection(subjectID, sectionID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return entities.ErrNameRequired
	}
	subject, err := c.subjects.Get(subjectID)
	if err != nil {
		return err
	}
	section, ok := subject.SectionByID(sectionID)
	if !ok {
		return entities.ErrSectionNotFound
	}
	if section.Name == newName {
		return entities.ErrNameUnchanged
	}

	oldName := section.Name
	for i := range subject.Sections {
		if subject.Sections[i].ID == sectionID {
			subject.Sections[i].Name = newName
		}
	}
	if err := c.subjects.replace(subject); err != nil {
		return err
	}
	return c.settings.renameSectionLabel(oldName, newName)
}

// DeleteSection resets the section reference on every lecture filed under
// it and removes the section from the subject. Both writes complete
// before the call returns.
func (c *Coordinator) DeleteSection(subjectID, sectionID string) error {
	subject, err := c.subjects.Get(subjectID)
	if err != nil {
		return err
	}
	section, ok := subject.SectionByID(sectionID)
	if !ok {
		return entities.ErrSectionNotFound
	}

	lectures := c.lectures.List()
	for i := range lectures {
		if lectures[i].SectionID == sectionID {
			lectures[i].SectionID = ""
		}
	}
	if err := c.lectures.replaceAll(lectures); err != nil {
		return err
	}

	kept := subject.Sections[:0]
	for _, sec := range subject.Sections {
		if sec.ID != sectionID {
			kept = append(kept, sec)
		}
	}
	subject.Sections = kept
	if err := c.subjects.replace(subject); err != nil {
		return err
	}
	return c.settings.removeSectionLabel(section.Name)
}

// AddStatus appends a status to the subject's ordered set. Names are the
// keys lectures reference, so they must be unique within the subject.
func (c *Coordinator) AddStatus(subjectID string, status entities.Status) error {
	status.Name = strings.TrimSpace(status.Name)
	if status.Name == "" {
		return entities.ErrNameRequired
	}
	subject, err := c.subjects.Get(subjectID)
	if err != nil {
		return err
	}
	if subject.HasStatus(status.Name) {
		return entities.ErrDuplicateStatus
	}
	subject.Statuses = append(subject.Statuses, status)
	return c.subjects.replace(subject)
}

// RecolorStatus changes the color of an existing status. The name is the
// key, so no lecture is touched.
func (c *Coordinator) RecolorStatus(subjectID, name, color string) error {
	subject, err := c.subjects.Get(subjectID)
	if err != nil {
		return err
	}
	for i := range subject.Statuses {
		if subject.Statuses[i].Name == name {
			subject.Statuses[i].Color = color
			return c.subjects.replace(subject)
		}
	}
	return entities.ErrStatusNotFound
}

// DeleteStatus removes the status from the subject and reassigns every
// lecture carrying it to the first remaining status, or to the
// unassigned sentinel when none remain. Both writes complete before the
// call returns.
func (c *Coordinator) DeleteStatus(subjectID, name string) error {
	subject, err := c.subjects.Get(subjectID)
	if err != nil {
		return err
	}
	if !subject.HasStatus(name) {
		return entities.ErrStatusNotFound
	}

	kept := subject.Statuses[:0]
	for _, st := range subject.Statuses {
		if st.Name != name {
			kept = append(kept, st)
		}
	}
	subject.Statuses = kept
	replacement := subject.FirstStatusName()

	lectures := c.lectures.List()
	for i := range lectures {
		if lectures[i].SubjectID == subjectID && lectures[i].Status == name {
			lectures[i].Status = replacement
		}
	}
	if err := c.lectures.replaceAll(lectures); err != nil {
		return err
	}
	return c.subjects.replace(subject)
}
