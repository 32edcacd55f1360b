package entity

import (
	"time"

	"github.com/google/uuid"
)

// BaseSimple is the identity shared by rows that are only ever inserted and deleted.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
