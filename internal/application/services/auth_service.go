package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/config"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/ports"
)

const resetPurpose = "password_reset"

// Claims represents the JWT claims
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo  ports.UserRepository
	jwtConfig config.JWTConfig
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// SignUp creates a new user account and signs it in
func (s *AuthService) SignUp(ctx context.Context, req ports.SignUpRequest) (*ports.AuthResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", req.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User signed up", "user_id", user.ID, "email", user.Email)

	return s.respondWithToken(user, s.jwtConfig.ExpiresIn)
}

// SignIn authenticates a user and returns an access token. Remember-me
// sessions get the extended expiry.
func (s *AuthService) SignIn(ctx context.Context, req ports.SignInRequest) (*ports.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warnw("Sign-in attempt with unknown email", "email", req.Email)
		return nil, entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Sign-in attempt with wrong password", "email", req.Email, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	expiresIn := s.jwtConfig.ExpiresIn
	if req.Remember {
		expiresIn = s.jwtConfig.RememberExpiresIn
	}

	s.logger.Infow("User signed in", "user_id", user.ID, "email", user.Email, "remember", req.Remember)

	return s.respondWithToken(user, expiresIn)
}

// SignOut ends the session. Tokens are stateless, so the server only
// records the event; the client discards its token.
func (s *AuthService) SignOut(ctx context.Context, userID uuid.UUID) error {
	s.logger.Infow("User signed out", "user_id", userID)
	return nil
}

// RequestPasswordReset issues a short-lived, purpose-bound token for the
// given account. The token is what a mail integration would deliver; an
// unknown email reports success without issuing anything, so the
// endpoint does not leak which accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Warnw("Password reset requested for unknown email", "email", email)
		return "", nil
	}

	token, err := s.signToken(user, s.jwtConfig.ResetTokenExpires, resetPurpose)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	s.logger.Infow("Password reset token issued", "user_id", user.ID)
	return token, nil
}

// ResetPassword consumes a reset token and replaces the account password
func (s *AuthService) ResetPassword(ctx context.Context, req ports.ResetPasswordRequest) error {
	claims, err := s.parseToken(req.Token)
	if err != nil || claims.Purpose != resetPurpose {
		return entities.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return entities.ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Infow("Password reset completed", "user_id", userID)
	return nil
}

// ChangePassword verifies the current password before replacing it
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ports.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return entities.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Infow("Password changed", "user_id", userID)
	return nil
}

// UpdateProfile changes the account display name
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req ports.UpdateProfileRequest) (*entities.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Name); err != nil {
		return nil, err
	}
	return s.GetCurrentUser(ctx, userID)
}

// GetCurrentUser returns the account behind the session
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ValidateToken validates a session token and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	// Purpose-bound tokens never open a session.
	if claims.Purpose != "" {
		return nil, entities.ErrInvalidToken
	}
	return &ports.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

func (s *AuthService) respondWithToken(user *entities.User, expiresIn time.Duration) (*ports.AuthResponse, error) {
	token, err := s.signToken(user, expiresIn, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	user.PasswordHash = ""

	return &ports.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresIn.Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) signToken(user *entities.User, expiresIn time.Duration, purpose string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, entities.ErrInvalidToken
	}
	return claims, nil
}
