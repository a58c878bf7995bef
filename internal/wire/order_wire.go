package wire

import (
	"ecommerce-backend/internal/adaptor"
	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/pkg/middleware"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/checkout", func(r chi.Router) {
		r.Use(middleware.Authenticate(repo.User, config.JWT, log))
		r.Use(middleware.RequireRole(log, entity.RoleUser))

		r.Post("/", orderHandler.Checkout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(middleware.Authenticate(repo.User, config.JWT, log))
		r.Use(middleware.RequireRole(log, entity.RoleUser))

		r.Get("/", orderHandler.GetOrders)
		r.Get("/{id}", orderHandler.GetOrderByID)
	})
}
