package response

import (
	"time"

	"review-service/internal/data/entity"
)

type ReviewResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	GigID          string    `json:"gig_id"`
	AuthorRole     string    `json:"author_role"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorPicture  *string   `json:"author_picture,omitempty"`
	TargetID       string    `json:"target_id"`
	TargetUsername string    `json:"target_username"`
	TargetPicture  *string   `json:"target_picture,omitempty"`
	Review         string    `json:"review"`
	Rating         int       `json:"rating"`
	Reply          *string   `json:"reply,omitempty"`
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:             review.ID.String(),
		OrderID:        review.OrderID,
		GigID:          review.GigID,
		AuthorRole:     string(review.AuthorRole),
		AuthorID:       review.AuthorID,
		AuthorUsername: review.AuthorUsername,
		AuthorPicture:  review.AuthorPicture,
		TargetID:       review.TargetID,
		TargetUsername: review.TargetUsername,
		TargetPicture:  review.TargetPicture,
		Review:         review.Text,
		Rating:         review.Rating,
		Reply:          review.Reply,
		IsPublic:       review.IsPublic,
		CreatedAt:      review.CreatedAt,
	}
}

// SeedStats summarizes one bulk-import run.
type SeedStats struct {
	TotalOrders        int `json:"total_orders"`
	TotalReviewsSeeded int `json:"total_reviews_seeded"`
	OrdersRevealed     int `json:"orders_revealed"`
}
