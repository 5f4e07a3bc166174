package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studyplanner/core/internal/application/services"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
)

// ExamHandler handles exam-related requests
type ExamHandler struct {
	examService *services.ExamService
	logger      *logger.Logger
}

// NewExamHandler creates a new exam handler
func NewExamHandler(examService *services.ExamService, logger *logger.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		logger:      logger,
	}
}

// ListExams returns exams; ?upcoming=true hides completed ones
func (h *ExamHandler) ListExams(c echo.Context) error {
	upcoming := false
	if upcomingStr := c.QueryParam("upcoming"); upcomingStr != "" {
		parsed, err := strconv.ParseBool(upcomingStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid upcoming parameter")
		}
		upcoming = parsed
	}

	exams, err := h.examService.ListExams(c.Request().Context(), upcoming)
	if err != nil {
		h.logger.Errorw("List exams failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve exams")
	}
	return c.JSON(http.StatusOK, exams)
}

// CreateExam adds an exam
func (h *ExamHandler) CreateExam(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateExamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exam, err := h.examService.CreateExam(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Create exam failed", "error", err, "user_id", userID)
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, exam)
}

// UpdateExam patches an exam
func (h *ExamHandler) UpdateExam(c echo.Context) error {
	var patch planner.ExamPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	exam, err := h.examService.UpdateExam(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, exam)
}

// DeleteExam removes an exam
func (h *ExamHandler) DeleteExam(c echo.Context) error {
	if err := h.examService.DeleteExam(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Exam deleted"})
}
