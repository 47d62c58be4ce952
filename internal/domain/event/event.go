package event

import "time"

// Role is a user's standing on an event's guest list.
type Role string

const (
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
	RoleGuest     Role = "GUEST"
)

// Status is a guest's answer to an invitation.
type Status string

const (
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusTentative Status = "TENTATIVE"
)

// Attendee is one (user, role) pair attached to an event.
type Attendee struct {
	UserID int64
	Email  string
	Role   Role
	Status Status
}

// Event is a calendar entry with its guest list, as the directory exposes
// it. Start is an absolute instant; recipients see it projected into their
// own zone.
type Event struct {
	ID        int64
	Title     string
	Start     time.Time
	Attendees []Attendee
}

// Attendee returns the guest-list entry for userID, or nil if the user is
// not attached to the event.
func (e *Event) Attendee(userID int64) *Attendee {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID {
			return &e.Attendees[i]
		}
	}
	return nil
}

// RecipientEmails collects the emails of every attendee, in guest-list
// order. Duplicates are kept; dispatch handles each entry independently.
func (e *Event) RecipientEmails() []string {
	emails := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		emails = append(emails, a.Email)
	}
	return emails
}
