package usecase

import (
	"review-service/internal/data/repository"
	"review-service/pkg/queue"
	"review-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Review ReviewService
	Seed   SeedService
}

func NewService(repo *repository.Repository, pub queue.Publisher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Review: NewReviewService(repo, pub, config.Queue.Exchange, log),
		Seed:   NewSeedService(repo, pub, config.Queue.Exchange, log),
	}
}
