package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/studyplanner/core/internal/application/services"
	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignUp handles account creation
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req ports.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.SignUp(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Sign up failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, response)
}

// SignIn handles user sign-in
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req ports.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.SignIn(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Sign in failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// SignOut handles user sign-out
func (h *AuthHandler) SignOut(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.authService.SignOut(c.Request().Context(), userID); err != nil {
		h.logger.Errorw("Sign out failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Sign out failed")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Signed out successfully"})
}

// ForgotPassword issues a password reset token for the given email. The
// response is the same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		h.logger.Errorw("Password reset request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Password reset request failed")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "If the account exists, a reset link has been sent"})
}

// ResetPassword consumes a reset token and sets a new password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ports.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req); err != nil {
		h.logger.Warnw("Password reset failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired reset token")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Password updated"})
}

// ChangePassword replaces the password of the signed-in account
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req); err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is wrong")
		}
		h.logger.Errorw("Password change failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Password change failed")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Password updated"})
}

// GetCurrentUser returns the signed-in account
func (h *AuthHandler) GetCurrentUser(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.authService.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Get current user failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the display name of the signed-in account
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Profile update failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// Welcome is the root endpoint. Only GET is served; other methods get an
// explicit method-not-allowed body.
func Welcome(c echo.Context) error {
	if c.Request().Method != http.MethodGet {
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to Study Planner API"})
}

// Utility functions

func getUserIDFromContext(c echo.Context) uuid.UUID {
	user := c.Get("user")
	if user == nil {
		return uuid.Nil
	}

	if userStr, ok := user.(string); ok {
		userID, _ := uuid.Parse(userStr)
		return userID
	}

	return uuid.Nil
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, entities.ErrSubjectNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrExamNotFound),
		errors.Is(err, entities.ErrLectureNotFound),
		errors.Is(err, entities.ErrSectionNotFound),
		errors.Is(err, entities.ErrStatusNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrDuplicateStatus),
		errors.Is(err, entities.ErrDuplicateSection):
		return http.StatusConflict
	case errors.Is(err, entities.ErrBuiltinSetting):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrNameRequired),
		errors.Is(err, entities.ErrTitleRequired),
		errors.Is(err, entities.ErrDateRequired),
		errors.Is(err, entities.ErrSubjectRequired),
		errors.Is(err, entities.ErrInvalidColor),
		errors.Is(err, entities.ErrNameUnchanged):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func domainError(err error) *echo.HTTPError {
	return echo.NewHTTPError(errorStatus(err), err.Error())
}
