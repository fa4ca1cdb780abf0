package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"review-service/internal/data/entity"
	"review-service/internal/data/repository"
	"review-service/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testExchange = "review-events"

func newTestService(repo *mockReviewRepo, pub *mockPublisher) ReviewService {
	return NewReviewService(&repository.Repository{Review: repo}, pub, testExchange, zap.NewNop())
}

func submitRequest(role string) *request.SubmitReviewRequest {
	return &request.SubmitReviewRequest{
		OrderID:        "order-1",
		GigID:          "gig-1",
		AuthorRole:     role,
		AuthorID:       "author-1",
		AuthorUsername: "alice",
		TargetID:       "target-1",
		TargetUsername: "bob",
		Text:           "solid work, would hire again",
		Rating:         5,
	}
}

func TestSubmitReview_FirstOfPairStaysPrivate(t *testing.T) {
	repo := &mockReviewRepo{
		submitFn: func(_ context.Context, review *entity.Review) (*repository.SubmitResult, error) {
			assert.False(t, review.IsPublic)
			assert.False(t, review.IsSeeded)
			return &repository.SubmitResult{Review: review, Revealed: false}, nil
		},
	}
	pub := &mockPublisher{}

	resp, err := newTestService(repo, pub).SubmitReview(context.Background(), submitRequest("REQUESTER"))
	require.NoError(t, err)

	assert.False(t, resp.IsPublic)
	assert.Empty(t, pub.published(), "no events before the pair is complete")
}

func TestSubmitReview_SecondOfPairRevealsAndNotifiesBothParties(t *testing.T) {
	sibling := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().Add(-time.Hour),
		},
		OrderID:        "order-1",
		GigID:          "gig-1",
		AuthorRole:     entity.RoleRequester,
		AuthorID:       "target-1",
		AuthorUsername: "bob",
		TargetID:       "author-1",
		TargetUsername: "alice",
		Text:           "great client",
		Rating:         4,
		IsPublic:       true,
	}
	repo := &mockReviewRepo{
		submitFn: func(_ context.Context, review *entity.Review) (*repository.SubmitResult, error) {
			review.IsPublic = true
			return &repository.SubmitResult{Review: review, Revealed: true, Sibling: sibling}, nil
		},
	}
	pub := &mockPublisher{}

	resp, err := newTestService(repo, pub).SubmitReview(context.Background(), submitRequest("PROVIDER"))
	require.NoError(t, err)
	assert.True(t, resp.IsPublic)

	messages := pub.published()
	require.Len(t, messages, 2, "exactly one event per row of the pair")

	first, ok := messages[0].Payload.(ReviewCreatedMessage)
	require.True(t, ok)
	second, ok := messages[1].Payload.(ReviewCreatedMessage)
	require.True(t, ok)

	// Each event goes to the opposite party of its row
	assert.Equal(t, RoutingKeyReviewedByProvider, messages[0].RoutingKey)
	assert.Equal(t, "target-1", first.RecipientID)
	assert.Equal(t, RoutingKeyReviewedByRequester, messages[1].RoutingKey)
	assert.Equal(t, "author-1", second.RecipientID)

	assert.Equal(t, testExchange, messages[0].Exchange)
	assert.Equal(t, "order-1", first.OrderID)
	assert.Equal(t, 5, first.Rating)
}

func TestSubmitReview_ConflictPassesThrough(t *testing.T) {
	repo := &mockReviewRepo{
		submitFn: func(context.Context, *entity.Review) (*repository.SubmitResult, error) {
			return nil, repository.ErrPairComplete
		},
	}
	pub := &mockPublisher{}

	_, err := newTestService(repo, pub).SubmitReview(context.Background(), submitRequest("REQUESTER"))
	assert.ErrorIs(t, err, repository.ErrPairComplete)
	assert.Empty(t, pub.published())
}

func TestSubmitReview_ValidationFailureSkipsStore(t *testing.T) {
	repo := &mockReviewRepo{
		submitFn: func(context.Context, *entity.Review) (*repository.SubmitResult, error) {
			t.Fatal("store must not be touched on validation failure")
			return nil, nil
		},
	}

	req := submitRequest("REQUESTER")
	req.Rating = 6

	_, err := newTestService(repo, &mockPublisher{}).SubmitReview(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestSubmitReview_BadRoleRejected(t *testing.T) {
	repo := &mockReviewRepo{}

	req := submitRequest("ADMIN")

	_, err := newTestService(repo, &mockPublisher{}).SubmitReview(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestSubmitReview_PublisherFailureDoesNotFailSubmit(t *testing.T) {
	sibling := &entity.Review{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		OrderID:    "order-1",
		AuthorRole: entity.RoleRequester,
		IsPublic:   true,
	}
	repo := &mockReviewRepo{
		submitFn: func(_ context.Context, review *entity.Review) (*repository.SubmitResult, error) {
			review.IsPublic = true
			return &repository.SubmitResult{Review: review, Revealed: true, Sibling: sibling}, nil
		},
	}
	pub := &mockPublisher{err: errors.New("broker down")}

	resp, err := newTestService(repo, pub).SubmitReview(context.Background(), submitRequest("PROVIDER"))
	require.NoError(t, err, "delivery failure must not surface after commit")
	assert.True(t, resp.IsPublic)
}

func TestReplyReview_AttachesAndNotifiesOnce(t *testing.T) {
	reviewID := uuid.New()
	reply := "thanks for the kind words"

	repo := &mockReviewRepo{
		attachReplyFn: func(_ context.Context, id uuid.UUID, text string) (*entity.Review, error) {
			assert.Equal(t, reviewID, id)
			assert.Equal(t, reply, text)
			return &entity.Review{
				BaseSimple: entity.BaseSimple{ID: id, CreatedAt: time.Now()},
				OrderID:    "order-1",
				GigID:      "gig-1",
				AuthorRole: entity.RoleProvider,
				TargetID:   "target-1",
				Reply:      &text,
				IsPublic:   true,
			}, nil
		},
	}
	pub := &mockPublisher{}

	resp, err := newTestService(repo, pub).ReplyReview(context.Background(), reviewID.String(), &request.ReplyReviewRequest{Reply: reply})
	require.NoError(t, err)
	require.NotNil(t, resp.Reply)
	assert.Equal(t, reply, *resp.Reply)

	messages := pub.published()
	require.Len(t, messages, 1)
	assert.Equal(t, RoutingKeyReviewReply, messages[0].RoutingKey)

	message, ok := messages[0].Payload.(ReviewReplyMessage)
	require.True(t, ok)
	assert.Equal(t, "target-1", message.RecipientID)
	assert.Equal(t, reply, message.Reply)
}

func TestReplyReview_NotFoundPassesThrough(t *testing.T) {
	repo := &mockReviewRepo{
		attachReplyFn: func(context.Context, uuid.UUID, string) (*entity.Review, error) {
			return nil, repository.ErrReviewNotFound
		},
	}
	pub := &mockPublisher{}

	_, err := newTestService(repo, pub).ReplyReview(context.Background(), uuid.New().String(), &request.ReplyReviewRequest{Reply: "again"})
	assert.ErrorIs(t, err, repository.ErrReviewNotFound)
	assert.Empty(t, pub.published())
}

func TestReplyReview_InvalidIDRejected(t *testing.T) {
	repo := &mockReviewRepo{}

	_, err := newTestService(repo, &mockPublisher{}).ReplyReview(context.Background(), "not-a-uuid", &request.ReplyReviewRequest{Reply: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid review ID format")
}

func TestQueryReviews_EmptyAnonymousFilterSkipsStore(t *testing.T) {
	repo := &mockReviewRepo{}

	resp, err := newTestService(repo, &mockPublisher{}).QueryReviews(context.Background(), "", &request.QueryReviewsRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)

	assert.Empty(t, resp.Data)
	assert.Zero(t, resp.Pagination.Total)
	assert.Zero(t, repo.searchCalls)
}

func TestQueryReviews_PassesFilterAndPaginates(t *testing.T) {
	var captured repository.ReviewFilter
	rows := []*entity.Review{
		{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			OrderID:    "order-1",
			GigID:      "gig-1",
			AuthorRole: entity.RoleRequester,
			IsPublic:   true,
		},
	}
	repo := &mockReviewRepo{
		searchFn: func(_ context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
			captured = filter
			return rows, nil
		},
		countFn: func(context.Context, repository.ReviewFilter) (int64, error) {
			return 41, nil
		},
	}

	req := &request.QueryReviewsRequest{GigID: "gig-1", Page: 3, PerPage: 20}
	resp, err := newTestService(repo, &mockPublisher{}).QueryReviews(context.Background(), "user-7", req)
	require.NoError(t, err)

	assert.Equal(t, "user-7", captured.RequesterID)
	assert.Equal(t, "gig-1", captured.GigID)
	assert.Equal(t, 20, captured.Limit)
	assert.Equal(t, 40, captured.Offset)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "order-1", resp.Data[0].OrderID)
	assert.Equal(t, int64(41), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestQueryReviews_ClampsLimit(t *testing.T) {
	var captured repository.ReviewFilter
	repo := &mockReviewRepo{
		searchFn: func(_ context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
			captured = filter
			return nil, nil
		},
		countFn: func(context.Context, repository.ReviewFilter) (int64, error) { return 0, nil },
	}

	req := &request.QueryReviewsRequest{OrderID: "order-1", Page: 1, PerPage: 500}
	_, err := newTestService(repo, &mockPublisher{}).QueryReviews(context.Background(), "", req)
	require.NoError(t, err)

	assert.Equal(t, 100, captured.Limit)
}
