package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/pkg/utils"
)

func newAuthService(env *testEnv) AuthService {
	return NewAuthService(env.repo, env.config, env.mail, env.log)
}

func TestSignup(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)

	resp, err := service.Signup(context.Background(), &request.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if resp.Role != entity.RoleUser {
		t.Errorf("expected default role user, got %s", resp.Role)
	}

	stored, err := env.users.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if stored == nil {
		t.Fatal("user should be persisted")
	}
	if stored.PasswordHash == "Secret123" {
		t.Error("password must not be stored in plaintext")
	}
	if !utils.CheckPasswordHash("Secret123", stored.PasswordHash) {
		t.Error("stored hash should verify the original password")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)
	env.addUser("alice@example.com", "Secret123", entity.RoleUser)

	_, err := service.Signup(context.Background(), &request.SignupRequest{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "Other456x",
	})
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("expected already registered error, got: %v", err)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)

	_, err := service.Signup(context.Background(), &request.SignupRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "alllowercase",
	})
	if err == nil {
		t.Fatal("expected validation error for weak password")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("expected validation error, got: %v", err)
	}
}

func TestSignupAdminRole(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)

	resp, err := service.Signup(context.Background(), &request.SignupRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "Secret123",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if resp.Role != entity.RoleAdmin {
		t.Errorf("expected admin role, got %s", resp.Role)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)
	user := env.addUser("alice@example.com", "Secret123", entity.RoleUser)

	resp, err := service.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens to be set")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected bearer token type, got %s", resp.TokenType)
	}

	claims, err := utils.DecodeToken(env.config.JWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("DecodeToken failed: %v", err)
	}
	if claims.Subject != user.Email {
		t.Errorf("expected subject %s, got %s", user.Email, claims.Subject)
	}
	if claims.Role != string(entity.RoleUser) {
		t.Errorf("expected role user in claims, got %s", claims.Role)
	}
}

func TestLoginUniformFailure(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)
	env.addUser("alice@example.com", "Secret123", entity.RoleUser)

	_, wrongPassword := service.Login(context.Background(), &request.LoginRequest{
		Email:    "alice@example.com",
		Password: "Wrong999x",
	})
	_, unknownEmail := service.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Secret123",
	})

	if wrongPassword == nil || unknownEmail == nil {
		t.Fatal("both attempts should fail")
	}
	// Unknown email and wrong password must be indistinguishable
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
	if !strings.Contains(wrongPassword.Error(), "invalid credentials") {
		t.Errorf("expected invalid credentials error, got: %v", wrongPassword)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)

	err := service.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	if err == nil {
		t.Fatal("expected error for unknown email")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)
	user := env.addUser("alice@example.com", "Secret123", entity.RoleUser)

	if err := service.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{
		Email: "alice@example.com",
	}); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	if len(env.tokens.tokens) != 1 {
		t.Fatalf("expected 1 reset token, got %d", len(env.tokens.tokens))
	}
	var token string
	for _, stored := range env.tokens.tokens {
		token = stored.Token
		if stored.UserID != user.ID {
			t.Errorf("token bound to wrong user: %s", stored.UserID)
		}
	}

	if err := service.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Token:       token,
		NewPassword: "Changed456",
	}); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	stored, _ := env.users.FindByID(context.Background(), user.ID)
	if !utils.CheckPasswordHash("Changed456", stored.PasswordHash) {
		t.Error("new password should verify after reset")
	}
	if utils.CheckPasswordHash("Secret123", stored.PasswordHash) {
		t.Error("old password should no longer verify")
	}

	// The token is single-use
	err := service.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Token:       token,
		NewPassword: "Another789",
	})
	if err == nil {
		t.Fatal("expected error reusing a consumed token")
	}
	if !strings.Contains(err.Error(), "invalid or expired") {
		t.Errorf("expected invalid or expired error, got: %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)
	user := env.addUser("alice@example.com", "Secret123", entity.RoleUser)

	expired := &entity.PasswordResetToken{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)},
		UserID:     user.ID,
		Token:      "expired-token",
		ExpiresAt:  time.Now().Add(-time.Minute),
	}
	env.tokens.tokens[expired.ID] = expired

	err := service.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Token:       "expired-token",
		NewPassword: "Changed456",
	})
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if !strings.Contains(err.Error(), "invalid or expired") {
		t.Errorf("expected invalid or expired error, got: %v", err)
	}

	stored, _ := env.users.FindByID(context.Background(), user.ID)
	if !utils.CheckPasswordHash("Secret123", stored.PasswordHash) {
		t.Error("password should be unchanged after an expired token")
	}
}

func TestResetPasswordFailedUpdateKeepsToken(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)
	user := env.addUser("alice@example.com", "Secret123", entity.RoleUser)

	if err := service.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{
		Email: "alice@example.com",
	}); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	var token string
	for _, stored := range env.tokens.tokens {
		token = stored.Token
	}

	env.users.updatePasswordErr = fmt.Errorf("connection reset")

	err := service.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Token:       token,
		NewPassword: "Changed456",
	})
	if err == nil {
		t.Fatal("expected error when the password update fails")
	}

	// The failed attempt must not burn the token
	env.users.updatePasswordErr = nil
	if err := service.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Token:       token,
		NewPassword: "Changed456",
	}); err != nil {
		t.Fatalf("token should still be redeemable, got: %v", err)
	}

	stored, _ := env.users.FindByID(context.Background(), user.ID)
	if !utils.CheckPasswordHash("Changed456", stored.PasswordHash) {
		t.Error("new password should verify after the retry")
	}
}

func TestResetPasswordUnknownToken(t *testing.T) {
	env := newTestEnv()
	service := newAuthService(env)

	err := service.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Token:       "never-issued",
		NewPassword: "Changed456",
	})
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
	if !strings.Contains(err.Error(), "invalid or expired") {
		t.Errorf("expected invalid or expired error, got: %v", err)
	}
}
