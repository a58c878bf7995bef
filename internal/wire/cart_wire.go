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

func wireCart(
	r chi.Router,
	cartHandler *adaptor.CartHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.Authenticate(repo.User, config.JWT, log))
		r.Use(middleware.RequireRole(log, entity.RoleUser))

		r.Post("/", cartHandler.AddToCart)
		r.Get("/", cartHandler.ViewCart)
		r.Put("/{product_id}", cartHandler.UpdateCartItem)
		r.Delete("/{product_id}", cartHandler.RemoveCartItem)
	})
}
