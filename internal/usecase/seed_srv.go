package usecase

import (
	"context"
	"fmt"

	"review-service/internal/data/entity"
	"review-service/internal/data/repository"
	"review-service/internal/dto/request"
	"review-service/internal/dto/response"
	"review-service/pkg/queue"
	"review-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedService is the bulk-import path for migrated orders. It writes seeded
// rows directly and must never run concurrently with protocol submissions
// for the same orders.
type SeedService interface {
	SeedReviews(ctx context.Context, req *request.SeedReviewsRequest) (*response.SeedStats, error)
	DeleteSeeded(ctx context.Context) (int64, error)
}

type seedService struct {
	repo     *repository.Repository
	pub      queue.Publisher
	exchange string
	log      *zap.Logger
}

func NewSeedService(repo *repository.Repository, pub queue.Publisher, exchange string, log *zap.Logger) SeedService {
	return &seedService{
		repo:     repo,
		pub:      pub,
		exchange: exchange,
		log:      log.With(zap.String("service", "seed")),
	}
}

func (s *seedService) SeedReviews(ctx context.Context, req *request.SeedReviewsRequest) (*response.SeedStats, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Seed reviews validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	var rows []*entity.Review
	for _, order := range req.CompletedOrders {
		if order.RequesterReview != nil {
			row, err := seedEntity(order, order.RequesterReview, entity.RoleRequester)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if order.ProviderReview != nil {
			row, err := seedEntity(order, order.ProviderReview, entity.RoleProvider)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}

	s.log.Info("Seeding reviews",
		zap.Int("orders", len(req.CompletedOrders)),
		zap.Int("reviews", len(rows)),
	)

	revealed, err := s.repo.Review.SeedReviews(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("seed reviews: %w", err)
	}

	for _, pair := range revealed {
		publishRevealPair(ctx, s.pub, s.exchange, s.log, pair[0], pair[1])
	}

	return &response.SeedStats{
		TotalOrders:        len(req.CompletedOrders),
		TotalReviewsSeeded: len(rows),
		OrdersRevealed:     len(revealed),
	}, nil
}

func (s *seedService) DeleteSeeded(ctx context.Context) (int64, error) {
	count, err := s.repo.Review.DeleteSeeded(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete seeded reviews: %w", err)
	}
	return count, nil
}

// seedEntity maps one historical review to a seeded row. Author and target
// identities swap depending on which party wrote it.
func seedEntity(order request.SeedOrder, review *request.SeedReview, role entity.ReviewRole) (*entity.Review, error) {
	id, err := uuid.Parse(review.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid review ID format %s: %w", review.ID, err)
	}

	row := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        id,
			CreatedAt: review.Timestamp,
		},
		OrderID:  order.OrderID,
		GigID:    order.GigID,
		Text:     review.Text,
		Rating:   review.Rating,
		IsSeeded: true,
	}

	if role == entity.RoleRequester {
		row.AuthorRole = entity.RoleRequester
		row.AuthorID = order.RequesterID
		row.AuthorUsername = order.RequesterUsername
		row.AuthorPicture = order.RequesterPicture
		row.TargetID = order.ProviderID
		row.TargetUsername = order.ProviderUsername
		row.TargetPicture = order.ProviderPicture
	} else {
		row.AuthorRole = entity.RoleProvider
		row.AuthorID = order.ProviderID
		row.AuthorUsername = order.ProviderUsername
		row.AuthorPicture = order.ProviderPicture
		row.TargetID = order.RequesterID
		row.TargetUsername = order.RequesterUsername
		row.TargetPicture = order.RequesterPicture
	}

	return row, nil
}
