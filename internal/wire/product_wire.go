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

func wireProduct(
	r chi.Router,
	productHandler *adaptor.ProductHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Admin catalog management
	r.Route("/admin/products", func(r chi.Router) {
		r.Use(middleware.Authenticate(repo.User, config.JWT, log))
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.ListProducts)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Browsing requires a login but no particular role
	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.Authenticate(repo.User, config.JWT, log))

		r.Get("/", productHandler.BrowseProducts)
		r.Get("/search", productHandler.SearchProducts)
		r.Get("/{id}", productHandler.GetProductByID)
	})
}
