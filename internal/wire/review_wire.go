package wire

import (
	"review-service/internal/adaptor"
	"review-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/reviews - visibility-aware listing; anonymous callers only
	// ever see public pairs
	r.Get("/api/reviews", reviewHandler.QueryReviews)

	// ==================== IDENTIFIED ROUTES ====================
	// The gateway resolves identity; these routes refuse anonymous calls
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity(log))

		// POST /api/reviews - submit one review of the counterparty
		r.Post("/api/reviews", reviewHandler.SubmitReview)

		// PUT /api/reviews/{id}/reply - one-time reply attachment
		r.Put("/api/reviews/{id}/reply", reviewHandler.ReplyReview)
	})
}
