package event

import (
	"context"
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

// Directory resolves events and their guest lists. Read-only; event CRUD
// lives upstream.
type Directory interface {
	GetByID(ctx context.Context, id int64) (*Event, error)

	// ListStartingWithin returns events whose start satisfies
	// now < start < now+horizon, soonest first.
	ListStartingWithin(ctx context.Context, now time.Time, horizon time.Duration) ([]*Event, error)
}
