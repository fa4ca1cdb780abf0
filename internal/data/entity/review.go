package entity

// ReviewRole identifies which counterparty of an order authored a review.
type ReviewRole string

const (
	RoleRequester ReviewRole = "REQUESTER"
	RoleProvider  ReviewRole = "PROVIDER"
)

func (r ReviewRole) Valid() bool {
	return r == RoleRequester || r == RoleProvider
}

// Counterpart returns the role on the other side of the order.
func (r ReviewRole) Counterpart() ReviewRole {
	if r == RoleRequester {
		return RoleProvider
	}
	return RoleRequester
}

// Review holds one authored review of a completed order. A row stays private
// (is_public false) until its sibling for the same order exists; both then
// flip public together. Seeded rows bypass that protocol.
type Review struct {
	BaseSimple
	OrderID        string     `db:"order_id"`
	GigID          string     `db:"gig_id"`
	AuthorRole     ReviewRole `db:"author_role"`
	AuthorID       string     `db:"author_id"`
	AuthorUsername string     `db:"author_username"`
	AuthorPicture  *string    `db:"author_picture"`
	TargetID       string     `db:"target_id"`
	TargetUsername string     `db:"target_username"`
	TargetPicture  *string    `db:"target_picture"`
	Text           string     `db:"review"`
	Rating         int        `db:"rating"`
	Reply          *string    `db:"reply"`
	IsPublic       bool       `db:"is_public"`
	IsSeeded       bool       `db:"is_seeded"`
}
