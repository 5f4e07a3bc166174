package planner

import (
	"strings"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/store"
)

// Settings exposes the configuration collections: the difficulty map
// (statusSettings), the completion-stage map (completionStatus), and the
// free-standing section label list. Built-in entries are seeded on first
// read and can be edited or extended but never removed.
type Settings struct {
	store *store.Store
}

// NewSettings creates the settings view.
func NewSettings(st *store.Store) *Settings {
	return &Settings{store: st}
}

// StatusSettings returns the difficulty map, seeding built-ins if absent.
func (s *Settings) StatusSettings() map[string]entities.StatusSetting {
	var m map[string]entities.StatusSetting
	s.store.Read(KeyStatusSettings, &m, entities.DefaultStatusSettings())
	return m
}

// SetStatusSetting adds or replaces one difficulty entry.
func (s *Settings) SetStatusSetting(key string, setting entities.StatusSetting) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return entities.ErrNameRequired
	}
	m := s.StatusSettings()
	m[key] = setting
	return s.store.Write(KeyStatusSettings, m)
}

// RemoveStatusSetting deletes a user-added difficulty entry. Built-ins
// are protected.
func (s *Settings) RemoveStatusSetting(key string) error {
	if _, builtin := entities.DefaultStatusSettings()[key]; builtin {
		return entities.ErrBuiltinSetting
	}
	m := s.StatusSettings()
	if _, ok := m[key]; !ok {
		return entities.ErrStatusNotFound
	}
	delete(m, key)
	return s.store.Write(KeyStatusSettings, m)
}

// CompletionSettings returns the completion-stage map, seeding built-ins
// if absent.
func (s *Settings) CompletionSettings() map[string]entities.CompletionSetting {
	var m map[string]entities.CompletionSetting
	s.store.Read(KeyCompletionStatus, &m, entities.DefaultCompletionSettings())
	return m
}

// SectionLabels returns the shared section label list used as suggestions
// on the settings surface. The coordinator keeps it in sync with section
// renames and deletes.
func (s *Settings) SectionLabels() []string {
	var labels []string
	s.store.Read(KeySectionLabels, &labels, []string{})
	return labels
}

// AddSectionLabel appends a label, rejecting blanks and duplicates.
func (s *Settings) AddSectionLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return entities.ErrNameRequired
	}
	labels := s.SectionLabels()
	for _, l := range labels {
		if l == label {
			return entities.ErrDuplicateSection
		}
	}
	return s.store.Write(KeySectionLabels, append(labels, label))
}

// renameSectionLabel rewrites one label in place, preserving order.
func (s *Settings) renameSectionLabel(oldName, newName string) error {
	labels := s.SectionLabels()
	for i, l := range labels {
		if l == oldName {
			labels[i] = newName
		}
	}
	return s.store.Write(KeySectionLabels, labels)
}

// removeSectionLabel filters a label out of the list.
func (s *Settings) removeSectionLabel(name string) error {
	labels := s.SectionLabels()
	kept := labels[:0]
	for _, l := range labels {
		if l != name {
			kept = append(kept, l)
		}
	}
	return s.store.Write(KeySectionLabels, kept)
}
