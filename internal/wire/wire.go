// internal/wire/wire.go
package wire

import (
	"review-service/internal/adaptor"
	"review-service/internal/data/repository"
	"review-service/internal/usecase"
	"review-service/pkg/database"
	"review-service/pkg/middleware"
	"review-service/pkg/queue"
	"review-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, db database.PgxIface, pub queue.Publisher, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, pub, config, logger)
	handler := adaptor.NewHandler(service, db, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Identity(logger))

	wireReview(r, handler.Review, logger)
	wireSeed(r, handler.Seed, config, logger)

	// Health endpoints
	r.Get("/health", handler.Health.Liveness)
	r.Get("/health/ready", handler.Health.Readiness)

	return r
}
