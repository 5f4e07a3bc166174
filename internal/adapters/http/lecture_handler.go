package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyplanner/core/internal/application/services"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
)

// LectureHandler handles lecture-related requests
type LectureHandler struct {
	lectureService *services.LectureService
	logger         *logger.Logger
}

// NewLectureHandler creates a new lecture handler
func NewLectureHandler(lectureService *services.LectureService, logger *logger.Logger) *LectureHandler {
	return &LectureHandler{
		lectureService: lectureService,
		logger:         logger,
	}
}

// ListLectures returns lectures, optionally scoped to one subject
func (h *LectureHandler) ListLectures(c echo.Context) error {
	lectures, err := h.lectureService.ListLectures(c.Request().Context(), c.QueryParam("subject_id"))
	if err != nil {
		h.logger.Errorw("List lectures failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve lectures")
	}
	return c.JSON(http.StatusOK, lectures)
}

// CreateLecture adds a lecture
func (h *LectureHandler) CreateLecture(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateLectureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lecture, err := h.lectureService.CreateLecture(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Create lecture failed", "error", err, "user_id", userID)
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, lecture)
}

// UpdateLecture patches a lecture
func (h *LectureHandler) UpdateLecture(c echo.Context) error {
	var patch planner.LecturePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	lecture, err := h.lectureService.UpdateLecture(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lecture)
}

// CycleStatus advances the lecture through its subject's status set
func (h *LectureHandler) CycleStatus(c echo.Context) error {
	lecture, err := h.lectureService.CycleLectureStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lecture)
}

// CycleCompletion advances the lecture through the fixed completion cycle
func (h *LectureHandler) CycleCompletion(c echo.Context) error {
	lecture, err := h.lectureService.CycleLectureCompletion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lecture)
}

// DeleteLecture removes a lecture
func (h *LectureHandler) DeleteLecture(c echo.Context) error {
	if err := h.lectureService.DeleteLecture(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Lecture deleted"})
}
