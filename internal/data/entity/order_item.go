package entity

import "github.com/google/uuid"

// OrderItem freezes the product price at the moment of purchase.
// Later catalog price changes never touch placed orders.
type OrderItem struct {
	BaseSimple
	OrderID         uuid.UUID `db:"order_id"`
	ProductID       uuid.UUID `db:"product_id"`
	Quantity        int       `db:"quantity"`
	PriceAtPurchase float64   `db:"price_at_purchase"`
}
