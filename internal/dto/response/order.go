package response

import (
	"time"

	"ecommerce-backend/internal/data/entity"
)

type OrderItemResponse struct {
	ProductID       string  `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	TotalAmount float64             `json:"total_amount"`
	Status      entity.OrderStatus  `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
}

type OrderSummaryResponse struct {
	ID          string             `json:"id"`
	TotalAmount float64            `json:"total_amount"`
	Status      entity.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

func OrderToResponse(order *entity.Order, items []*entity.OrderItem) OrderResponse {
	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = OrderItemResponse{
			ProductID:       item.ProductID.String(),
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		}
	}

	return OrderResponse{
		ID:          order.ID.String(),
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		Items:       itemResponses,
	}
}

func OrderToSummary(order *entity.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:          order.ID.String(),
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}
}
