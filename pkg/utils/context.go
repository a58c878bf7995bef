package utils

import (
	"context"

	"ecommerce-backend/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller, built exactly once per request
// by the auth middleware and threaded through the context.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
}

func SetIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
