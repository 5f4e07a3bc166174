package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyplanner/core/internal/domain/entities"
	"github.com/studyplanner/core/internal/infrastructure/config"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/ports"
)

// fakeUserRepo is an in-memory ports.UserRepository.
type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, name string) error {
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.Name = name
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func newAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, config.JWTConfig{
		Secret:            "test-secret",
		ExpiresIn:         time.Hour,
		RememberExpiresIn: 720 * time.Hour,
		ResetTokenExpires: time.Hour,
		Issuer:            "studyplanner-test",
	}, logger.NewNop())
}

func signUp(t *testing.T, svc *AuthService) *ports.AuthResponse {
	t.Helper()
	resp, err := svc.SignUp(context.Background(), ports.SignUpRequest{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	return resp
}

func TestSignUpIssuesSession(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	resp := signUp(t, svc)

	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("response = %+v, want bearer token", resp)
	}
	if resp.User.PasswordHash != "" {
		t.Error("response leaks the password hash")
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("claims.Email = %q", claims.Email)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	signUp(t, svc)

	_, err := svc.SignUp(context.Background(), ports.SignUpRequest{
		Email:    "ada@example.com",
		Name:     "Imposter",
		Password: "whatever",
	})
	if err == nil {
		t.Fatal("SignUp() with taken email succeeded")
	}
}

func TestSignIn(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	signUp(t, svc)

	tests := []struct {
		name    string
		req     ports.SignInRequest
		wantErr error
	}{
		{"valid", ports.SignInRequest{Email: "ada@example.com", Password: "correct horse"}, nil},
		{"wrong password", ports.SignInRequest{Email: "ada@example.com", Password: "nope"}, entities.ErrInvalidCredentials},
		{"unknown email", ports.SignInRequest{Email: "ghost@example.com", Password: "x"}, entities.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.SignIn(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SignIn() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && resp.AccessToken == "" {
				t.Error("SignIn() returned no token")
			}
		})
	}
}

func TestSignInRememberExtendsExpiry(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	signUp(t, svc)

	resp, err := svc.SignIn(context.Background(), ports.SignInRequest{
		Email: "ada@example.com", Password: "correct horse", Remember: true,
	})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if want := int64((720 * time.Hour).Seconds()); resp.ExpiresIn != want {
		t.Errorf("ExpiresIn = %d, want %d", resp.ExpiresIn, want)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	signUp(t, svc)

	token, err := svc.RequestPasswordReset(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if token == "" {
		t.Fatal("no reset token issued")
	}

	// A reset token never opens a session.
	if _, err := svc.ValidateToken(token); !errors.Is(err, entities.ErrInvalidToken) {
		t.Errorf("ValidateToken(reset token) error = %v, want ErrInvalidToken", err)
	}

	if err := svc.ResetPassword(context.Background(), ports.ResetPasswordRequest{
		Token: token, NewPassword: "new passphrase",
	}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := svc.SignIn(context.Background(), ports.SignInRequest{
		Email: "ada@example.com", Password: "correct horse",
	}); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Error("old password still accepted after reset")
	}
	if _, err := svc.SignIn(context.Background(), ports.SignInRequest{
		Email: "ada@example.com", Password: "new passphrase",
	}); err != nil {
		t.Errorf("SignIn() with new password error = %v", err)
	}
}

func TestPasswordResetUnknownEmailDoesNotLeak(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	token, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if token != "" {
		t.Error("token issued for unknown account")
	}
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	resp := signUp(t, svc)

	err := svc.ResetPassword(context.Background(), ports.ResetPasswordRequest{
		Token: resp.AccessToken, NewPassword: "hijacked",
	})
	if !errors.Is(err, entities.ErrInvalidToken) {
		t.Errorf("ResetPassword(session token) error = %v, want ErrInvalidToken", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	resp := signUp(t, svc)
	userID := resp.User.ID

	if err := svc.ChangePassword(context.Background(), userID, ports.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "x",
	}); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Errorf("ChangePassword() with wrong old password error = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(context.Background(), userID, ports.ChangePasswordRequest{
		OldPassword: "correct horse", NewPassword: "rotated",
	}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.SignIn(context.Background(), ports.SignInRequest{
		Email: "ada@example.com", Password: "rotated",
	}); err != nil {
		t.Errorf("SignIn() with rotated password error = %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("ValidateToken() accepted garbage")
	}
}

func TestGetCurrentUserStripsHash(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	resp := signUp(t, svc)

	user, err := svc.GetCurrentUser(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("GetCurrentUser() leaks the password hash")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email = %q", user.Email)
	}
}
