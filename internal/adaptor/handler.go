package adaptor

import (
	"review-service/internal/usecase"
	"review-service/pkg/database"

	"go.uber.org/zap"
)

type Handler struct {
	Review *ReviewHandler
	Seed   *SeedHandler
	Health *HealthHandler
}

func NewHandler(service *usecase.Service, db database.PgxIface, log *zap.Logger) *Handler {
	return &Handler{
		Review: NewReviewHandler(service.Review, log),
		Seed:   NewSeedHandler(service.Seed, log),
		Health: NewHealthHandler(db, log),
	}
}
