// internal/domain/notification/notification.go
package notification

import "github.com/google/uuid"

// Category tags a notification with the domain change that produced it and
// selects which user preference applies at dispatch time.
type Category string

const (
	CategoryEventChanged      Category = "EVENT_CHANGED"
	CategoryInviteGuest       Category = "INVITE_GUEST"
	CategoryUninviteGuest     Category = "UNINVITE_GUEST"
	CategoryUserStatusChanged Category = "USER_STATUS_CHANGED"
	CategoryUserRoleChanged   Category = "USER_ROLE_CHANGED"
	CategoryCancelEvent       Category = "CANCEL_EVENT"
	CategoryUpcomingEvent     Category = "UPCOMING_EVENT"
	CategoryRegister          Category = "REGISTER"
)

// TimeLayout is how event times are rendered inside notification bodies.
const TimeLayout = "2006-01-02 15:04 MST"

// Notification is a fully rendered message addressed to one or more
// recipient emails. It is transient: built by a producer, published on the
// bus, fanned out, and never persisted. Title and Body carry the final text;
// nothing downstream templates or rewrites them.
type Notification struct {
	ID         string
	Category   Category
	Title      string
	Body       string
	Recipients []string
}

// New builds a notification with a fresh ID. The ID only exists for popup
// payloads and log correlation; equality of notifications is never needed.
func New(category Category, title, body string, recipients []string) Notification {
	return Notification{
		ID:         uuid.NewString(),
		Category:   category,
		Title:      title,
		Body:       body,
		Recipients: recipients,
	}
}
