package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is single-use: redemption requires it to be both
// unexpired and unused, and marks it consumed.
type PasswordResetToken struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}
