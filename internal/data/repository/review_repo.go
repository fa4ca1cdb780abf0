package repository

import (
	"context"
	"errors"
	"fmt"

	"review-service/internal/data/entity"
	"review-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Sentinel errors surfaced to the usecase layer. Anything else coming out of
// this package is a store failure and safe for the caller to retry.
var (
	ErrPairComplete   = errors.New("both parties have already reviewed this order")
	ErrRoleReviewed   = errors.New("this party has already reviewed this order")
	ErrReviewNotFound = errors.New("review not found")
)

const reviewColumns = `id, order_id, gig_id, author_role, author_id, author_username, author_picture,
		target_id, target_username, target_picture, review, rating, reply, is_public, is_seeded, created_at`

// SubmitResult reports what the reveal transaction did. Sibling is set only
// when this submission completed the pair and flipped it public.
type SubmitResult struct {
	Review   *entity.Review
	Revealed bool
	Sibling  *entity.Review
}

type ReviewRepository interface {
	// SubmitWithReveal inserts a review and, when it is the second of its
	// order, flips both rows public in the same transaction.
	SubmitWithReveal(ctx context.Context, review *entity.Review) (*SubmitResult, error)

	// AttachReply sets the one-time reply on a provider-authored row.
	AttachReply(ctx context.Context, reviewID uuid.UUID, reply string) (*entity.Review, error)

	// Visibility-aware reads
	Search(ctx context.Context, filter ReviewFilter) ([]*entity.Review, error)
	CountSearch(ctx context.Context, filter ReviewFilter) (int64, error)

	// Bulk-import path; bypasses the reveal protocol by design.
	SeedReviews(ctx context.Context, rows []*entity.Review) ([][2]*entity.Review, error)
	DeleteSeeded(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) SubmitWithReveal(ctx context.Context, review *entity.Review) (*SubmitResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin submit transaction",
			zap.Error(err),
			zap.String("order_id", review.OrderID),
		)
		return nil, fmt.Errorf("begin submit for order %s: %w", review.OrderID, err)
	}
	defer tx.Rollback(ctx)

	// Row locks alone cannot serialize two first submissions: with zero
	// existing rows there is nothing to lock, and both would insert private.
	// The advisory lock makes the whole unit exclusive per order; different
	// orders proceed in parallel.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, review.OrderID); err != nil {
		r.log.Error("Failed to acquire order lock",
			zap.Error(err),
			zap.String("order_id", review.OrderID),
		)
		return nil, fmt.Errorf("lock order %s: %w", review.OrderID, err)
	}

	locked, err := r.lockOrderRows(ctx, tx, review.OrderID)
	if err != nil {
		return nil, err
	}

	revealed, err := decideReveal(locked, review.AuthorRole)
	if err != nil {
		r.log.Warn("Submit rejected",
			zap.Error(err),
			zap.String("order_id", review.OrderID),
			zap.String("author_role", string(review.AuthorRole)),
		)
		return nil, err
	}

	review.IsPublic = revealed

	insertQuery := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.Exec(ctx, insertQuery,
		review.ID,
		review.OrderID,
		review.GigID,
		review.AuthorRole,
		review.AuthorID,
		review.AuthorUsername,
		review.AuthorPicture,
		review.TargetID,
		review.TargetUsername,
		review.TargetPicture,
		review.Text,
		review.Rating,
		review.Reply,
		review.IsPublic,
		review.IsSeeded,
		review.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert review",
			zap.Error(err),
			zap.String("order_id", review.OrderID),
			zap.String("review_id", review.ID.String()),
		)
		return nil, fmt.Errorf("insert review for order %s: %w", review.OrderID, err)
	}

	result := &SubmitResult{Review: review, Revealed: revealed}

	if revealed {
		sibling := locked[0]
		tag, err := tx.Exec(ctx,
			`UPDATE reviews SET is_public = true WHERE id = $1`,
			sibling.ID,
		)
		if err != nil {
			r.log.Error("Failed to flip sibling review",
				zap.Error(err),
				zap.String("order_id", review.OrderID),
				zap.String("sibling_id", sibling.ID.String()),
			)
			return nil, fmt.Errorf("flip sibling %s for order %s: %w",
				sibling.ID.String(), review.OrderID, err)
		}
		if tag.RowsAffected() != 1 {
			return nil, fmt.Errorf("flip sibling %s for order %s: unexpected row count %d",
				sibling.ID.String(), review.OrderID, tag.RowsAffected())
		}

		sibling.IsPublic = true
		result.Sibling = sibling
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit submit transaction",
			zap.Error(err),
			zap.String("order_id", review.OrderID),
		)
		return nil, fmt.Errorf("commit submit for order %s: %w", review.OrderID, err)
	}

	return result, nil
}

// lockOrderRows takes FOR UPDATE locks on all rows of the order and returns
// them. Blocks until any concurrent submit for the same order finishes.
func (r *reviewRepository) lockOrderRows(ctx context.Context, tx pgx.Tx, orderID string) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE order_id = $1
		ORDER BY created_at
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to lock order rows",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("lock rows for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var locked []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan locked row for order %s: %w", orderID, err)
		}
		locked = append(locked, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked rows for order %s: %w", orderID, err)
	}

	return locked, nil
}

func (r *reviewRepository) AttachReply(ctx context.Context, reviewID uuid.UUID, reply string) (*entity.Review, error) {
	// The role filter is part of the product contract: replies only ever
	// attach to provider-authored rows. The null guard makes the reply
	// one-shot.
	query := `
		UPDATE reviews
		SET reply = $2
		WHERE id = $1 AND author_role = 'PROVIDER' AND reply IS NULL
		RETURNING ` + reviewColumns

	review, err := scanReview(r.db.QueryRow(ctx, query, reviewID, reply))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		r.log.Error("Failed to attach reply",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
		)
		return nil, fmt.Errorf("attach reply to review %s: %w", reviewID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) Search(ctx context.Context, filter ReviewFilter) ([]*entity.Review, error) {
	query, args := buildSearchQuery(filter, false)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search reviews",
			zap.Error(err),
			zap.String("order_id", filter.OrderID),
			zap.String("gig_id", filter.GigID),
		)
		return nil, fmt.Errorf("search reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountSearch(ctx context.Context, filter ReviewFilter) (int64, error) {
	query, args := buildSearchQuery(filter, true)

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return count, nil
}

func (r *reviewRepository) SeedReviews(ctx context.Context, entries []*entity.Review) ([][2]*entity.Review, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin seed transaction", zap.Error(err))
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (order_id, author_role) DO NOTHING
	`

	orderRoles := make(map[string]map[entity.ReviewRole]bool)
	for _, row := range entries {
		_, err := tx.Exec(ctx, insertQuery,
			row.ID,
			row.OrderID,
			row.GigID,
			row.AuthorRole,
			row.AuthorID,
			row.AuthorUsername,
			row.AuthorPicture,
			row.TargetID,
			row.TargetUsername,
			row.TargetPicture,
			row.Text,
			row.Rating,
			row.Reply,
			row.IsPublic,
			row.IsSeeded,
			row.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to insert seeded review",
				zap.Error(err),
				zap.String("order_id", row.OrderID),
				zap.String("review_id", row.ID.String()),
			)
			return nil, fmt.Errorf("seed review for order %s: %w", row.OrderID, err)
		}

		if orderRoles[row.OrderID] == nil {
			orderRoles[row.OrderID] = make(map[entity.ReviewRole]bool)
		}
		orderRoles[row.OrderID][row.AuthorRole] = true
	}

	// Orders with both roles present get the public flip here, inside the
	// same transaction, so a half-seeded pair never leaks.
	var revealed [][2]*entity.Review
	for orderID, roles := range orderRoles {
		if !roles[entity.RoleRequester] || !roles[entity.RoleProvider] {
			continue
		}

		pair, err := r.lockOrderRows(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		// Skip orders touched by the live protocol; flipping here would
		// split the pair's visibility.
		if len(pair) != 2 || !pair[0].IsSeeded || !pair[1].IsSeeded {
			continue
		}

		_, err = tx.Exec(ctx,
			`UPDATE reviews SET is_public = true WHERE order_id = $1 AND is_seeded = true`,
			orderID,
		)
		if err != nil {
			r.log.Error("Failed to flip seeded pair",
				zap.Error(err),
				zap.String("order_id", orderID),
			)
			return nil, fmt.Errorf("flip seeded pair for order %s: %w", orderID, err)
		}

		pair[0].IsPublic = true
		pair[1].IsPublic = true
		revealed = append(revealed, [2]*entity.Review{pair[0], pair[1]})
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit seed transaction", zap.Error(err))
		return nil, fmt.Errorf("commit seed: %w", err)
	}

	return revealed, nil
}

func (r *reviewRepository) DeleteSeeded(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE is_seeded = true`)
	if err != nil {
		r.log.Error("Failed to delete seeded reviews", zap.Error(err))
		return 0, fmt.Errorf("delete seeded reviews: %w", err)
	}

	r.log.Info("Seeded reviews deleted", zap.Int64("count", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// scanReview reads one full review row; works for both pgx.Row and pgx.Rows.
func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.OrderID,
		&review.GigID,
		&review.AuthorRole,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.AuthorPicture,
		&review.TargetID,
		&review.TargetUsername,
		&review.TargetPicture,
		&review.Text,
		&review.Rating,
		&review.Reply,
		&review.IsPublic,
		&review.IsSeeded,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
