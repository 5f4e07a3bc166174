package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyplanner/core/internal/application/services"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
)

// SubjectHandler handles subject, section and status requests
type SubjectHandler struct {
	subjectService *services.SubjectService
	lectureService *services.LectureService
	logger         *logger.Logger
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(subjectService *services.SubjectService, lectureService *services.LectureService, logger *logger.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
		lectureService: lectureService,
		logger:         logger,
	}
}

// ListSubjects returns all subjects
func (h *SubjectHandler) ListSubjects(c echo.Context) error {
	subjects, err := h.subjectService.ListSubjects(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List subjects failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve subjects")
	}
	return c.JSON(http.StatusOK, subjects)
}

// GetSubject returns one subject by id
func (h *SubjectHandler) GetSubject(c echo.Context) error {
	subject, err := h.subjectService.GetSubject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, subject)
}

// CreateSubject adds a subject
func (h *SubjectHandler) CreateSubject(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subject, err := h.subjectService.CreateSubject(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Create subject failed", "error", err, "user_id", userID)
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, subject)
}

// UpdateSubject patches a subject's name or color
func (h *SubjectHandler) UpdateSubject(c echo.Context) error {
	var patch planner.SubjectPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	subject, err := h.subjectService.UpdateSubject(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, subject)
}

// DeleteSubject removes a subject and everything referencing it
func (h *SubjectHandler) DeleteSubject(c echo.Context) error {
	id := c.Param("id")
	if err := h.subjectService.DeleteSubject(c.Request().Context(), id); err != nil {
		h.logger.Errorw("Delete subject failed", "error", err, "subject_id", id)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Subject deleted"})
}

// GetSubjectProgress reports lecture completion for a subject
func (h *SubjectHandler) GetSubjectProgress(c echo.Context) error {
	progress, err := h.lectureService.SubjectProgress(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, progress)
}

// AddSection adds a named section to a subject
func (h *SubjectHandler) AddSection(c echo.Context) error {
	var req ports.SectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	section, err := h.subjectService.AddSection(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, section)
}

// RenameSection renames a section within a subject
func (h *SubjectHandler) RenameSection(c echo.Context) error {
	var req ports.SectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subjectService.RenameSection(c.Request().Context(), c.Param("id"), c.Param("sectionId"), req); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Section renamed"})
}

// DeleteSection removes a section; lectures filed under it fall back to
// no section.
func (h *SubjectHandler) DeleteSection(c echo.Context) error {
	if err := h.subjectService.DeleteSection(c.Request().Context(), c.Param("id"), c.Param("sectionId")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Section deleted"})
}

// AddStatus appends a status to the subject's ordered set
func (h *SubjectHandler) AddStatus(c echo.Context) error {
	var req ports.StatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subjectService.AddStatus(c.Request().Context(), c.Param("id"), req); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, ports.MessageResponse{Message: "Status added"})
}

// RecolorStatus changes the color of an existing status
func (h *SubjectHandler) RecolorStatus(c echo.Context) error {
	var req ports.RecolorStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.subjectService.RecolorStatus(c.Request().Context(), c.Param("id"), c.Param("name"), req); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Status recolored"})
}

// DeleteStatus removes a status; lectures carrying it are reassigned
func (h *SubjectHandler) DeleteStatus(c echo.Context) error {
	if err := h.subjectService.DeleteStatus(c.Request().Context(), c.Param("id"), c.Param("name")); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Status deleted"})
}
