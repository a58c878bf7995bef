package usecase

import (
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Product ProductService
	Cart    CartService
	Order   OrderService
}

func NewService(repo *repository.Repository, config *utils.Config, mail *mailer.Mailer, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, mail, log),
		Product: NewProductService(repo, log),
		Cart:    NewCartService(repo, log),
		Order:   NewOrderService(repo, log),
	}
}
