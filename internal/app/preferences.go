// internal/app/preferences.go
package app

import (
	"context"
	"errors"

	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// PreferenceResolver answers which channels a user enabled for a
// notification category, and how far ahead their upcoming-event reminder
// should fire.
type PreferenceResolver struct {
	users  user.Directory
	logger *logrus.Logger
}

func NewPreferenceResolver(users user.Directory, logger *logrus.Logger) *PreferenceResolver {
	return &PreferenceResolver{users: users, logger: logger}
}

// Resolve returns the stored delivery mode for the category. A user without
// a stored settings record gets ModeNone: defaults are written at account
// creation, never invented here.
func (r *PreferenceResolver) Resolve(ctx context.Context, userID int64, c notification.Category) notification.DeliveryMode {
	prefs, err := r.users.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrNoPreferences) {
			r.logger.WithError(err).WithField("user_id", userID).Warn("preference lookup failed, treating as NONE")
		}
		return notification.ModeNone
	}
	return prefs.ModeFor(c)
}

// UpcomingLeadTime returns the configured reminder band, falling back to the
// account-creation default when no record exists.
func (r *PreferenceResolver) UpcomingLeadTime(ctx context.Context, userID int64) notification.LeadTime {
	prefs, err := r.users.GetPreferences(ctx, userID)
	if err != nil {
		return notification.LeadTenMinutes
	}
	return prefs.UpcomingLeadTime
}
