package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/middleware"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, mail *mailer.Mailer, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, mail, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth)
	wireProduct(r, handler.Product, repo, config, logger)
	wireCart(r, handler.Cart, repo, config, logger)
	wireOrder(r, handler.Order, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
