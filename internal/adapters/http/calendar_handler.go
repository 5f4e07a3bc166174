package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyplanner/core/internal/application/services"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/ports"
)

// CalendarHandler serves the derived calendar projection
type CalendarHandler struct {
	calendarService *services.CalendarService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

// ListEvents returns every task and exam projected onto the calendar
func (h *CalendarHandler) ListEvents(c echo.Context) error {
	events, err := h.calendarService.Events(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List calendar events failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to derive calendar events")
	}
	return c.JSON(http.StatusOK, events)
}

// ResolveSubject returns the display name and color behind a subject
// reference, with the gray fallback when it no longer resolves.
func (h *CalendarHandler) ResolveSubject(c echo.Context) error {
	ref := h.calendarService.ResolveSubject(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, ref)
}

// SettingsHandler serves the configuration collections
type SettingsHandler struct {
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetStatusSettings returns the difficulty map
func (h *SettingsHandler) GetStatusSettings(c echo.Context) error {
	settings, err := h.settingsService.StatusSettings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// SetStatusSetting adds or replaces one difficulty entry
func (h *SettingsHandler) SetStatusSetting(c echo.Context) error {
	var req ports.StatusSettingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.settingsService.SetStatusSetting(c.Request().Context(), c.Param("key"), req); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Setting saved"})
}

// RemoveStatusSetting deletes a user-added difficulty entry
func (h *SettingsHandler) RemoveStatusSetting(c echo.Context) error {
	if err := h.settingsService.RemoveStatusSetting(c.Request().Context(), c.Param("key")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Setting removed"})
}

// GetCompletionSettings returns the completion-stage map
func (h *SettingsHandler) GetCompletionSettings(c echo.Context) error {
	settings, err := h.settingsService.CompletionSettings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// GetSectionLabels returns the shared section label suggestions
func (h *SettingsHandler) GetSectionLabels(c echo.Context) error {
	labels, err := h.settingsService.SectionLabels(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve labels")
	}
	return c.JSON(http.StatusOK, labels)
}

// AddSectionLabel records a label on the suggestion list
func (h *SettingsHandler) AddSectionLabel(c echo.Context) error {
	var req ports.SectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.settingsService.AddSectionLabel(c.Request().Context(), req); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, ports.MessageResponse{Message: "Label added"})
}
