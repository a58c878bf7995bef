package entity

import "github.com/google/uuid"

// CartItem is unique per (user, product); adding the same product again
// increments Quantity instead of inserting a second row.
type CartItem struct {
	Base
	UserID    uuid.UUID `db:"user_id"`
	ProductID uuid.UUID `db:"product_id"`
	Quantity  int       `db:"quantity"`
}
