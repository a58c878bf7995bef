package entity

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	BaseSimple
	UserID      uuid.UUID   `db:"user_id"`
	TotalAmount float64     `db:"total_amount"`
	Status      OrderStatus `db:"status"`
}
