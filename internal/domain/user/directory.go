package user

import (
	"context"
	"errors"

	"calendar_notifier/internal/domain/notification"
)

var ErrUserNotFound = errors.New("user not found")

// ErrNoPreferences marks a user without a stored notification settings
// record. Callers treat it as "deliver nothing".
var ErrNoPreferences = errors.New("no notification preferences stored")

// Directory resolves recipient identities and their notification
// preferences. It is a read-only view over the account store.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetPreferences(ctx context.Context, userID int64) (notification.Preferences, error)
}
