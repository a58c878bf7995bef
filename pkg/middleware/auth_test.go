package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, nil
}

func (r *stubUserRepo) UpdatePassword(context.Context, *entity.User) error { return nil }

func testUser(role entity.Role) *entity.User {
	return &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Name:         "Test User",
		Email:        "user@example.com",
		PasswordHash: "$2a$10$somelongbcryptlookinghashvalue123456",
		Role:         role,
	}
}

func authConfig() utils.JWTConfig {
	return utils.JWTConfig{
		Secret:            "test-secret",
		AccessExpiryMins:  15,
		RefreshExpiryDays: 7,
	}
}

// identityCapture records the identity the middleware put in context.
func identityCapture(t *testing.T, captured *utils.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := utils.GetIdentity(r.Context())
		if !ok {
			t.Error("identity missing from request context")
		}
		*captured = identity
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	user := testUser(entity.RoleUser)
	repo := &stubUserRepo{user: user}
	config := authConfig()

	token, err := utils.CreateAccessToken(config, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	var captured utils.Identity
	handler := Authenticate(repo, config, zap.NewNop())(identityCapture(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.UserID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, captured.UserID)
	}
	if captured.Role != entity.RoleUser {
		t.Errorf("expected role user, got %s", captured.Role)
	}
}

func TestAuthenticateCookieToken(t *testing.T) {
	user := testUser(entity.RoleUser)
	repo := &stubUserRepo{user: user}
	config := authConfig()

	token, err := utils.CreateAccessToken(config, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	var captured utils.Identity
	handler := Authenticate(repo, config, zap.NewNop())(identityCapture(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := Authenticate(&stubUserRepo{}, authConfig(), zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run without a token")
		}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	user := testUser(entity.RoleUser)
	repo := &stubUserRepo{user: user}
	config := authConfig()

	token, err := utils.CreateRefreshToken(config, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		t.Fatalf("CreateRefreshToken failed: %v", err)
	}

	handler := Authenticate(repo, config, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run with a refresh token")
		}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateAfterPasswordChange(t *testing.T) {
	user := testUser(entity.RoleUser)
	repo := &stubUserRepo{user: user}
	config := authConfig()

	token, err := utils.CreateAccessToken(config, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	// The stored hash changes after the token was issued
	user.PasswordHash = "$2a$10$completelydifferenthashafterreset9999"

	handler := Authenticate(repo, config, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run with a stale token")
		}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	user := testUser(entity.RoleUser)
	config := authConfig()

	token, err := utils.CreateAccessToken(config, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	// The repo no longer knows the subject
	handler := Authenticate(&stubUserRepo{}, config, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run for a deleted user")
		}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity entity.Role
		allowed  []entity.Role
		want     int
	}{
		{"admin on admin route", entity.RoleAdmin, []entity.Role{entity.RoleAdmin}, http.StatusOK},
		{"user on admin route", entity.RoleUser, []entity.Role{entity.RoleAdmin}, http.StatusForbidden},
		{"user on user route", entity.RoleUser, []entity.Role{entity.RoleUser}, http.StatusOK},
		{"admin on user route", entity.RoleAdmin, []entity.Role{entity.RoleUser}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(zap.NewNop(), tt.allowed...)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			identity := utils.Identity{
				UserID: uuid.New(),
				Email:  "user@example.com",
				Role:   tt.identity,
			}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(utils.SetIdentity(req.Context(), identity))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	handler := RequireRole(zap.NewNop(), entity.RoleUser)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run without identity")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
