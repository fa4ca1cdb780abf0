package entity

import (
	"time"

	"github.com/google/uuid"
)

// BaseSimple covers immutable rows: created once, never soft-deleted.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
