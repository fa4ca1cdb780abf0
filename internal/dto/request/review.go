package request

import "time"

type SubmitReviewRequest struct {
	OrderID        string  `json:"order_id" validate:"required"`
	GigID          string  `json:"gig_id" validate:"required"`
	AuthorRole     string  `json:"author_role" validate:"required,oneof=REQUESTER PROVIDER"`
	AuthorID       string  `json:"author_id" validate:"required"`
	AuthorUsername string  `json:"author_username" validate:"required"`
	AuthorPicture  *string `json:"author_picture,omitempty"`
	TargetID       string  `json:"target_id" validate:"required"`
	TargetUsername string  `json:"target_username" validate:"required"`
	TargetPicture  *string `json:"target_picture,omitempty"`
	Text           string  `json:"review" validate:"required,min=1"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`
}

type ReplyReviewRequest struct {
	Reply string `json:"reply" validate:"required,min=1"`
}

// QueryReviewsRequest is built from query string parameters; all filters are
// optional but an unfiltered anonymous query returns nothing.
type QueryReviewsRequest struct {
	Query    string `json:"query"`
	OrderID  string `json:"order_id"`
	GigID    string `json:"gig_id"`
	TargetID string `json:"target_id"`
	Page     int    `json:"page" validate:"min=1"`
	PerPage  int    `json:"limit" validate:"min=1,max=100"`
}

func (q QueryReviewsRequest) Limit() int {
	if q.PerPage < 1 {
		return 10
	}
	if q.PerPage > 100 {
		return 100
	}
	return q.PerPage
}

func (q QueryReviewsRequest) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit()
}

// SeedReview is one historical review inside a migrated order.
type SeedReview struct {
	ID        string    `json:"id" validate:"required,uuid"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Text      string    `json:"review" validate:"required,min=1"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// SeedOrder carries both party identities plus whichever of the two reviews
// exist for a completed order being migrated in.
type SeedOrder struct {
	OrderID           string      `json:"order_id" validate:"required"`
	GigID             string      `json:"gig_id" validate:"required"`
	RequesterID       string      `json:"requester_id" validate:"required"`
	RequesterUsername string      `json:"requester_username" validate:"required"`
	RequesterPicture  *string     `json:"requester_picture,omitempty"`
	ProviderID        string      `json:"provider_id" validate:"required"`
	ProviderUsername  string      `json:"provider_username" validate:"required"`
	ProviderPicture   *string     `json:"provider_picture,omitempty"`
	RequesterReview   *SeedReview `json:"requester_review,omitempty"`
	ProviderReview    *SeedReview `json:"provider_review,omitempty"`
}

type SeedReviewsRequest struct {
	CompletedOrders []SeedOrder `json:"completed_orders" validate:"required,min=1,dive"`
}
