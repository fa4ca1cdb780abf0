package usecase

import (
	"context"
	"sync"

	"review-service/internal/data/entity"
	"review-service/internal/data/repository"

	"github.com/google/uuid"
)

// mockReviewRepo lets each test script the store's behavior.
type mockReviewRepo struct {
	submitFn      func(ctx context.Context, review *entity.Review) (*repository.SubmitResult, error)
	attachReplyFn func(ctx context.Context, reviewID uuid.UUID, reply string) (*entity.Review, error)
	searchFn      func(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, error)
	countFn       func(ctx context.Context, filter repository.ReviewFilter) (int64, error)
	seedFn        func(ctx context.Context, rows []*entity.Review) ([][2]*entity.Review, error)
	deleteSeedFn  func(ctx context.Context) (int64, error)

	searchCalls int
}

func (m *mockReviewRepo) SubmitWithReveal(ctx context.Context, review *entity.Review) (*repository.SubmitResult, error) {
	return m.submitFn(ctx, review)
}

func (m *mockReviewRepo) AttachReply(ctx context.Context, reviewID uuid.UUID, reply string) (*entity.Review, error) {
	return m.attachReplyFn(ctx, reviewID, reply)
}

func (m *mockReviewRepo) Search(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
	m.searchCalls++
	return m.searchFn(ctx, filter)
}

func (m *mockReviewRepo) CountSearch(ctx context.Context, filter repository.ReviewFilter) (int64, error) {
	return m.countFn(ctx, filter)
}

func (m *mockReviewRepo) SeedReviews(ctx context.Context, rows []*entity.Review) ([][2]*entity.Review, error) {
	return m.seedFn(ctx, rows)
}

func (m *mockReviewRepo) DeleteSeeded(ctx context.Context) (int64, error) {
	return m.deleteSeedFn(ctx)
}

type publishedMessage struct {
	Exchange   string
	RoutingKey string
	Payload    any
}

// mockPublisher records every publish; optionally fails each call.
type mockPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (m *mockPublisher) Publish(ctx context.Context, exchange, routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.messages = append(m.messages, publishedMessage{
		Exchange:   exchange,
		RoutingKey: routingKey,
		Payload:    payload,
	})
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedMessage(nil), m.messages...)
}
