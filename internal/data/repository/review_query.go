package repository

import (
	"fmt"
	"strings"

	"review-service/internal/data/entity"
)

// ReviewFilter describes one visibility-aware read. RequesterID widens
// visibility to the requester's own private rows; the remaining fields are
// conjunctive filters.
type ReviewFilter struct {
	RequesterID string
	OrderID     string
	GigID       string
	TargetID    string
	Query       string
	Limit       int
	Offset      int
}

// Empty reports whether the filter would select the whole table. The query
// engine refuses such reads instead of dumping private data.
func (f ReviewFilter) Empty() bool {
	return f.RequesterID == "" &&
		f.OrderID == "" &&
		f.GigID == "" &&
		f.TargetID == "" &&
		f.Query == ""
}

// buildSearchQuery renders the filter into SQL. The visibility clause always
// comes first: anonymous callers only ever see public rows, an identified
// requester additionally sees every row they authored.
func buildSearchQuery(f ReviewFilter, forCount bool) (string, []any) {
	var sb strings.Builder
	var args []any

	if forCount {
		sb.WriteString("SELECT COUNT(*) FROM reviews")
	} else {
		sb.WriteString("SELECT " + reviewColumns + " FROM reviews")
	}

	var conds []string

	if f.RequesterID != "" {
		args = append(args, f.RequesterID)
		conds = append(conds, fmt.Sprintf("(author_id = $%d OR is_public = true)", len(args)))
	} else {
		conds = append(conds, "is_public = true")
	}

	if f.OrderID != "" {
		args = append(args, f.OrderID)
		conds = append(conds, fmt.Sprintf("order_id = $%d", len(args)))
	}

	if f.GigID != "" {
		args = append(args, f.GigID)
		conds = append(conds, fmt.Sprintf("gig_id = $%d", len(args)))
	}

	if f.TargetID != "" {
		args = append(args, f.TargetID)
		conds = append(conds, fmt.Sprintf("target_id = $%d", len(args)))
	}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(review ILIKE $%d OR author_username ILIKE $%d OR target_username ILIKE $%d)", n, n, n))
	}

	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(conds, " AND "))

	if forCount {
		return sb.String(), args
	}

	// id tiebreak keeps pages stable when timestamps collide
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	args = append(args, f.Limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, f.Offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}

// decideReveal applies the reveal rule to the locked row set for an order:
// the first review stays private, the second one flips the pair, anything
// else is a conflict. Duplicate authorship by the same role is rejected even
// before the pair is complete.
func decideReveal(locked []*entity.Review, role entity.ReviewRole) (bool, error) {
	if len(locked) >= 2 {
		return false, ErrPairComplete
	}

	for _, row := range locked {
		if row.AuthorRole == role {
			return false, ErrRoleReviewed
		}
	}

	return len(locked) == 1, nil
}
