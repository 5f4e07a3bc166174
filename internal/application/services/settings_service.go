package services

import (
	"context"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
)

// SettingsService exposes the configuration collections. These are
// local-only: the hosted backend has no settings tables, matching the
// per-device nature of presentation preferences.
type SettingsService struct {
	settings *planner.Settings
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings *planner.Settings) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) StatusSettings(ctx context.Context) (map[string]entities.StatusSetting, error) {
	return s.settings.StatusSettings(), nil
}

func (s *SettingsService) SetStatusSetting(ctx context.Context, key string, req ports.StatusSettingRequest) error {
	setting := entities.StatusSetting{
		Label:       req.Label,
		Description: req.Description,
		Color:       req.Color,
		BgColor:     req.BgColor,
		TextColor:   req.TextColor,
	}
	return s.settings.SetStatusSetting(key, setting)
}

func (s *SettingsService) RemoveStatusSetting(ctx context.Context, key string) error {
	return s.settings.RemoveStatusSetting(key)
}

func (s *SettingsService) CompletionSettings(ctx context.Context) (map[string]entities.CompletionSetting, error) {
	return s.settings.CompletionSettings(), nil
}

func (s *SettingsService) SectionLabels(ctx context.Context) ([]string, error) {
	return s.settings.SectionLabels(), nil
}

func (s *SettingsService) AddSectionLabel(ctx context.Context, req ports.SectionRequest) error {
	return s.settings.AddSectionLabel(req.Name)
}
