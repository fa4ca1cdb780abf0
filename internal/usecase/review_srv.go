package usecase

import (
	"context"
	"fmt"
	"time"

	"review-service/internal/data/entity"
	"review-service/internal/data/repository"
	"review-service/internal/dto/request"
	"review-service/internal/dto/response"
	"review-service/pkg/queue"
	"review-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// SubmitReview runs the reveal protocol for one authored review.
	SubmitReview(ctx context.Context, req *request.SubmitReviewRequest) (*response.ReviewResponse, error)

	// ReplyReview attaches the one-time reply to a provider-authored review.
	ReplyReview(ctx context.Context, reviewID string, req *request.ReplyReviewRequest) (*response.ReviewResponse, error)

	// QueryReviews lists reviews the requester is allowed to see.
	QueryReviews(ctx context.Context, requesterID string, req *request.QueryReviewsRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo     *repository.Repository
	pub      queue.Publisher
	exchange string
	log      *zap.Logger
}

func NewReviewService(repo *repository.Repository, pub queue.Publisher, exchange string, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:     repo,
		pub:      pub,
		exchange: exchange,
		log:      log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, req *request.SubmitReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	role := entity.ReviewRole(req.AuthorRole)
	if !role.Valid() {
		return nil, fmt.Errorf("validation failed: invalid author role %s", req.AuthorRole)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		OrderID:        req.OrderID,
		GigID:          req.GigID,
		AuthorRole:     role,
		AuthorID:       req.AuthorID,
		AuthorUsername: req.AuthorUsername,
		AuthorPicture:  req.AuthorPicture,
		TargetID:       req.TargetID,
		TargetUsername: req.TargetUsername,
		TargetPicture:  req.TargetPicture,
		Text:           req.Text,
		Rating:         req.Rating,
	}

	result, err := s.repo.Review.SubmitWithReveal(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("submit review for order %s: %w", req.OrderID, err)
	}

	s.log.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("order_id", review.OrderID),
		zap.String("author_role", string(role)),
		zap.Bool("revealed", result.Revealed),
	)

	// The pair is durably public at this point; events are fire-and-forget.
	if result.Revealed {
		publishRevealPair(ctx, s.pub, s.exchange, s.log, result.Review, result.Sibling)
	}

	resp := response.ReviewToResponse(result.Review)
	return &resp, nil
}

func (s *reviewService) ReplyReview(ctx context.Context, reviewID string, req *request.ReplyReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reply review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	reviewUUID, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, fmt.Errorf("invalid review ID format %s: %w", reviewID, err)
	}

	review, err := s.repo.Review.AttachReply(ctx, reviewUUID, req.Reply)
	if err != nil {
		return nil, fmt.Errorf("reply to review %s: %w", reviewID, err)
	}

	s.log.Info("Reply attached",
		zap.String("review_id", reviewID),
		zap.String("order_id", review.OrderID),
	)

	message := ReviewReplyMessage{
		ReviewID:    review.ID.String(),
		OrderID:     review.OrderID,
		GigID:       review.GigID,
		Reply:       req.Reply,
		RecipientID: review.TargetID,
		RepliedAt:   time.Now().UTC(),
	}
	if err := s.pub.Publish(ctx, s.exchange, RoutingKeyReviewReply, message); err != nil {
		s.log.Error("Failed to publish reply event",
			zap.Error(err),
			zap.String("review_id", reviewID),
		)
		// reply is committed; delivery is retried out-of-band
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) QueryReviews(ctx context.Context, requesterID string, req *request.QueryReviewsRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	limit := req.Limit()
	page := req.Page
	if page < 1 {
		page = 1
	}

	filter := repository.ReviewFilter{
		RequesterID: requesterID,
		OrderID:     req.OrderID,
		GigID:       req.GigID,
		TargetID:    req.TargetID,
		Query:       req.Query,
		Limit:       limit,
		Offset:      utils.CalculateOffset(page, limit),
	}

	// An unfiltered anonymous read would be a dump of the table; return an
	// empty page without touching the store.
	if filter.Empty() {
		return response.NewPaginatedResponse([]response.ReviewResponse{}, page, limit, 0), nil
	}

	reviews, err := s.repo.Review.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	total, err := s.repo.Review.CountSearch(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review)
	}

	s.log.Debug("Reviews queried",
		zap.String("requester_id", requesterID),
		zap.Int("count", len(reviews)),
		zap.Int64("total", total),
		zap.Int("page", page),
	)

	return response.NewPaginatedResponse(reviewResponses, page, limit, total), nil
}
