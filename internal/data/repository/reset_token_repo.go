package repository

import (
	"context"
	"fmt"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	FindValidToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	MarkAsUsed(ctx context.Context, tokenID uuid.UUID) error
}

type resetTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewResetTokenRepository(db database.PgxIface, log *zap.Logger) ResetTokenRepository {
	return &resetTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "reset_token")),
	}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.Used,
		token.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reset token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create reset token for user %s: %w", token.UserID.String(), err)
	}

	return nil
}

// FindValidToken only matches tokens that are unused and unexpired.
func (r *resetTokenRepository) FindValidToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1
		  AND used = false
		  AND expires_at > NOW()
	`

	var resetToken entity.PasswordResetToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&resetToken.ID,
		&resetToken.UserID,
		&resetToken.Token,
		&resetToken.ExpiresAt,
		&resetToken.Used,
		&resetToken.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid reset token", zap.Error(err))
		return nil, fmt.Errorf("find valid reset token: %w", err)
	}

	return &resetToken, nil
}

func (r *resetTokenRepository) MarkAsUsed(ctx context.Context, tokenID uuid.UUID) error {
	query := `UPDATE password_reset_tokens SET used = true WHERE id = $1`

	result, err := r.db.Exec(ctx, query, tokenID)
	if err != nil {
		r.log.Error("Failed to mark reset token as used",
			zap.Error(err),
			zap.String("token_id", tokenID.String()),
		)
		return fmt.Errorf("mark reset token %s as used: %w", tokenID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reset token %s not found", tokenID.String())
	}

	return nil
}
