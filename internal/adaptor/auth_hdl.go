package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	config  *utils.Config
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "signup")
		return
	}

	utils.ResponseCreated(w, "Signup successful", response)
}

// Login handles POST /auth/login. On success the token pair is
// returned in the body and also set as httponly cookies so browser
// clients never expose tokens to scripts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	h.setTokenCookies(w, response.AccessToken, response.RefreshToken)

	utils.ResponseSuccess(w, "Login successful", response)
}

// Logout handles GET /auth/logout by clearing both token cookies.
// Tokens already issued stay valid until they expire or the password
// changes.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearTokenCookies(w)
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, "Password reset email sent", nil)
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password reset successful", nil)
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.config.JWT.AccessExpiryMins * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.config.JWT.RefreshExpiryDays * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"access_token", "refresh_token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// handleServiceError handles different types of errors
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "already registered"):
		h.log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid credentials"):
		// Bad login input is a 400 like any other rejected request
		// body; 401 is reserved for missing or stale tokens
		h.log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid or expired"):
		h.log.Warn(operation+" failed - invalid reset token", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
