package wire

import (
	"review-service/internal/adaptor"
	"review-service/pkg/middleware"
	"review-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSeed(
	r chi.Router,
	seedHandler *adaptor.SeedHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// Admin-only bulk import; bypasses the reveal protocol and must not run
	// while live submissions target the same orders
	r.Group(func(r chi.Router) {
		r.Use(middleware.Admin(config.Admin.Token, log))

		r.Post("/api/seed/reviews", seedHandler.SeedReviews)
		r.Delete("/api/seed/reviews", seedHandler.DeleteSeeded)
	})
}
