package adaptor

import (
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Product *ProductHandler
	Cart    *CartHandler
	Order   *OrderHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, config, log),
		Product: NewProductHandler(service.Product, log),
		Cart:    NewCartHandler(service.Cart, log),
		Order:   NewOrderHandler(service.Order, log),
	}
}
