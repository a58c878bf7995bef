package response

import "ecommerce-backend/internal/data/entity"

type CartItemResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func CartItemToResponse(item *entity.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID.String(),
		UserID:    item.UserID.String(),
		ProductID: item.ProductID.String(),
		Quantity:  item.Quantity,
	}
}

func CartItemsToResponse(items []*entity.CartItem) []CartItemResponse {
	responses := make([]CartItemResponse, len(items))
	for i, item := range items {
		responses[i] = CartItemToResponse(item)
	}
	return responses
}
