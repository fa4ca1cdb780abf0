package usecase

import (
	"context"
	"time"

	"review-service/internal/data/entity"
	"review-service/pkg/queue"

	"go.uber.org/zap"
)

// Routing keys for the review-events exchange. The "you were reviewed" key
// is parameterized by the author's role so consumers can tell which party
// wrote the review; replies get their own key.
const (
	RoutingKeyReviewedByRequester = "review.created.requester"
	RoutingKeyReviewedByProvider  = "review.created.provider"
	RoutingKeyReviewReply         = "review.reply"
)

func routingKeyForRole(role entity.ReviewRole) string {
	if role == entity.RoleProvider {
		return RoutingKeyReviewedByProvider
	}
	return RoutingKeyReviewedByRequester
}

// ReviewCreatedMessage tells the counterparty they were reviewed. Emitted
// once per row of a pair, only at the moment the pair flips public.
type ReviewCreatedMessage struct {
	ReviewID          string    `json:"review_id"`
	OrderID           string    `json:"order_id"`
	GigID             string    `json:"gig_id"`
	AuthorRole        string    `json:"author_role"`
	Rating            int       `json:"rating"`
	Review            string    `json:"review"`
	RecipientID       string    `json:"recipient_id"`
	RecipientUsername string    `json:"recipient_username"`
	CreatedAt         time.Time `json:"created_at"`
}

// ReviewReplyMessage tells the counterparty a reply was attached.
type ReviewReplyMessage struct {
	ReviewID    string    `json:"review_id"`
	OrderID     string    `json:"order_id"`
	GigID       string    `json:"gig_id"`
	Reply       string    `json:"reply"`
	RecipientID string    `json:"recipient_id"`
	RepliedAt   time.Time `json:"replied_at"`
}

// publishRevealPair emits one "you were reviewed" event per row of a
// now-public pair, each addressed to the row's target. Called strictly after
// the flipping transaction committed; delivery failures are logged and left
// to out-of-band retry, never propagated.
func publishRevealPair(ctx context.Context, pub queue.Publisher, exchange string, log *zap.Logger, pair ...*entity.Review) {
	for _, review := range pair {
		message := ReviewCreatedMessage{
			ReviewID:          review.ID.String(),
			OrderID:           review.OrderID,
			GigID:             review.GigID,
			AuthorRole:        string(review.AuthorRole),
			Rating:            review.Rating,
			Review:            review.Text,
			RecipientID:       review.TargetID,
			RecipientUsername: review.TargetUsername,
			CreatedAt:         review.CreatedAt,
		}

		if err := pub.Publish(ctx, exchange, routingKeyForRole(review.AuthorRole), message); err != nil {
			log.Error("Failed to publish review-created event",
				zap.Error(err),
				zap.String("review_id", review.ID.String()),
				zap.String("order_id", review.OrderID),
			)
			continue
		}

		log.Info("Review-created event published",
			zap.String("review_id", review.ID.String()),
			zap.String("order_id", review.OrderID),
			zap.String("recipient_id", review.TargetID),
		)
	}
}
