package usecase

import (
	"context"
	"fmt"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	mail   *mailer.Mailer
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, mail *mailer.Mailer, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mail:   mail,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	role := entity.RoleUser
	if req.Role != "" {
		role, err = entity.ParseRole(req.Role)
		if err != nil {
			return nil, fmt.Errorf("validation failed: invalid role %q", req.Role)
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return &response.SignupResponse{
		UserID:  user.ID.String(),
		Message: fmt.Sprintf("User %s created successfully as %s", user.Name, user.Role),
		Role:    user.Role,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to find user")
	}

	// Unknown email and wrong password fail the same way
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid credentials")
	}

	tokens, err := utils.CreateTokenPair(s.config.JWT, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		s.log.Error("Failed to create tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create credentials")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Forgot password validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	expiresAt := time.Now().Add(time.Duration(s.config.Reset.TokenExpiryMinutes) * time.Minute)
	resetToken := &entity.PasswordResetToken{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: expiresAt,
		Used:      false,
	}

	if err := s.repo.ResetToken.Create(ctx, resetToken); err != nil {
		s.log.Error("Failed to save reset token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to generate reset token")
	}

	s.log.Info("Password reset token generated",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", expiresAt))

	// Deliver asynchronously, the request does not wait on SMTP
	go s.sendResetEmail(user.Email, resetToken.Token)

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reset password validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	resetToken, err := s.repo.ResetToken.FindValidToken(ctx, req.Token)
	if err != nil {
		s.log.Error("Failed to find reset token", zap.Error(err))
		return fmt.Errorf("failed to verify reset token")
	}
	if resetToken == nil {
		return fmt.Errorf("invalid or expired reset token")
	}

	user, err := s.repo.User.FindByID(ctx, resetToken.UserID)
	if err != nil || user == nil {
		s.log.Error("User not found for reset token",
			zap.Error(err),
			zap.String("user_id", resetToken.UserID.String()))
		return fmt.Errorf("user not found")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()

	if err := s.repo.User.UpdatePassword(ctx, user); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to reset password")
	}

	// Consume the token only once the new hash is in place; a failed
	// update must leave it redeemable
	if err := s.repo.ResetToken.MarkAsUsed(ctx, resetToken.ID); err != nil {
		s.log.Error("Failed to mark reset token as used",
			zap.Error(err),
			zap.String("token_id", resetToken.ID.String()))
		return fmt.Errorf("failed to consume reset token")
	}

	s.log.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) sendResetEmail(email, token string) {
	if err := s.mail.SendPasswordReset(email, token); err != nil {
		s.log.Error("Failed to send reset email", zap.Error(err), zap.String("email", email))
	}
}
