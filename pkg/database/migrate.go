package database

import (
	"context"
	"fmt"
)

// Reviews are keyed one row per authored review. The is_public column is
// flipped for both rows of an order inside the same transaction that inserts
// the second row; nothing else may write it.
const reviewsSchema = `
	CREATE TABLE IF NOT EXISTS reviews (
		id              uuid PRIMARY KEY,
		order_id        text                    NOT NULL,
		gig_id          text                    NOT NULL,
		author_role     text                    NOT NULL,
		author_id       text                    NOT NULL,
		author_username text                    NOT NULL,
		author_picture  text,
		target_id       text                    NOT NULL,
		target_username text                    NOT NULL,
		target_picture  text,
		review          text                    NOT NULL,
		rating          integer                 NOT NULL,
		reply           text,
		is_public       boolean   DEFAULT false NOT NULL,
		is_seeded       boolean   DEFAULT false NOT NULL,
		created_at      timestamptz DEFAULT now() NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS reviews_order_role_uidx ON reviews (order_id, author_role);
	CREATE INDEX IF NOT EXISTS reviews_order_id_idx ON reviews (order_id);
	CREATE INDEX IF NOT EXISTS reviews_gig_id_idx ON reviews (gig_id);
	CREATE INDEX IF NOT EXISTS reviews_author_id_idx ON reviews (author_id);
	CREATE INDEX IF NOT EXISTS reviews_target_id_idx ON reviews (target_id);
	CREATE INDEX IF NOT EXISTS reviews_author_username_idx ON reviews (author_username);
	CREATE INDEX IF NOT EXISTS reviews_target_username_idx ON reviews (target_username);
`

// Migrate ensures the reviews table and its indexes exist.
func Migrate(ctx context.Context, db PgxIface) error {
	if _, err := db.Exec(ctx, reviewsSchema); err != nil {
		return fmt.Errorf("ensure reviews schema: %w", err)
	}
	return nil
}
