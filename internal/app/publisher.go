// internal/app/publisher.go
package app

import (
	"context"
	"errors"
	"fmt"

	"calendar_notifier/internal/domain/event"
	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// ErrMissingReference is returned when a publish names an event or user that
// the directories cannot resolve. Nothing is fanned out in that case.
var ErrMissingReference = errors.New("referenced event or user does not exist")

// Publisher builds notifications for completed domain changes and publishes
// them on the bus. The upstream CRUD layer calls one of the typed methods
// right after it commits the change; rendering happens here, exactly once.
type Publisher struct {
	bus    notification.Bus
	users  user.Directory
	events event.Directory
	logger *logrus.Logger
}

func NewPublisher(bus notification.Bus, users user.Directory, events event.Directory, logger *logrus.Logger) *Publisher {
	return &Publisher{bus: bus, users: users, events: events, logger: logger}
}

// Publish is the generic entry point: category, rendered title and body, and
// the recipient emails. Callers that publish through here have already
// validated their references.
func (p *Publisher) Publish(ctx context.Context, category notification.Category, title, body string, recipients []string) error {
	p.logger.WithFields(logrus.Fields{
		"category":   category,
		"recipients": len(recipients),
	}).Debug("publishing pre-rendered notification")
	return p.bus.Publish(ctx, notification.New(category, title, body, recipients))
}

// PublishEventChanged notifies every attendee that the event was edited.
func (p *Publisher) PublishEventChanged(ctx context.Context, eventID int64) error {
	ev, err := p.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	title := "Event Changed"
	body := fmt.Sprintf("Event '%s' at %s was changed!", ev.Title, ev.Start.Format(notification.TimeLayout))

	return p.bus.Publish(ctx, notification.New(notification.CategoryEventChanged, title, body, ev.RecipientEmails()))
}

// PublishEventCancelled notifies every attendee that the event was called
// off.
func (p *Publisher) PublishEventCancelled(ctx context.Context, eventID int64) error {
	ev, err := p.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	title := "Event Cancelled"
	body := fmt.Sprintf("Event '%s' at %s was cancelled!", ev.Title, ev.Start.Format(notification.TimeLayout))

	return p.bus.Publish(ctx, notification.New(notification.CategoryCancelEvent, title, body, ev.RecipientEmails()))
}

// PublishGuestInvited notifies the invitee.
func (p *Publisher) PublishGuestInvited(ctx context.Context, eventID int64, email string) error {
	ev, err := p.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	title := "New Event Invitation"
	body := fmt.Sprintf("You were invited to Event '%s' at %s !", ev.Title, ev.Start.Format(notification.TimeLayout))

	return p.bus.Publish(ctx, notification.New(notification.CategoryInviteGuest, title, body, []string{email}))
}

// PublishGuestRemoved notifies the removed guest.
func (p *Publisher) PublishGuestRemoved(ctx context.Context, eventID int64, email string) error {
	ev, err := p.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	title := "UnInvitation from Event"
	body := fmt.Sprintf("You were uninvited from Event '%s' at %s !", ev.Title, ev.Start.Format(notification.TimeLayout))

	return p.bus.Publish(ctx, notification.New(notification.CategoryUninviteGuest, title, body, []string{email}))
}

// PublishUserStatusChanged tells the event's organizer and admins that a
// guest approved or rejected their invitation.
func (p *Publisher) PublishUserStatusChanged(ctx context.Context, eventID, userID int64) error {
	ev, err := p.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	att := ev.Attendee(userID)
	if att == nil {
		return fmt.Errorf("user %d has no role on event %d: %w", userID, eventID, ErrMissingReference)
	}

	u, err := p.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrMissingReference)
		}
		return fmt.Errorf("resolving user %d: %w", userID, err)
	}

	var body string
	switch att.Status {
	case event.StatusApproved:
		body = fmt.Sprintf("User %s approved event '%s' at %s !", u.Name, ev.Title, ev.Start.Format(notification.TimeLayout))
	case event.StatusRejected:
		body = fmt.Sprintf("User %s rejected event '%s' at %s !", u.Name, ev.Title, ev.Start.Format(notification.TimeLayout))
	}

	recipients := make([]string, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		if a.Role == event.RoleOrganizer || a.Role == event.RoleAdmin {
			recipients = append(recipients, a.Email)
		}
	}

	return p.bus.Publish(ctx, notification.New(notification.CategoryUserStatusChanged, "User status", body, recipients))
}

// PublishUserRoleChanged tells a guest they were promoted to admin or
// demoted back to guest.
func (p *Publisher) PublishUserRoleChanged(ctx context.Context, eventID, userID int64) error {
	ev, err := p.getEvent(ctx, eventID)
	if err != nil {
		return err
	}

	att := ev.Attendee(userID)
	if att == nil {
		return fmt.Errorf("user %d has no role on event %d: %w", userID, eventID, ErrMissingReference)
	}

	u, err := p.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrMissingReference)
		}
		return fmt.Errorf("resolving user %d: %w", userID, err)
	}

	var body string
	switch att.Role {
	case event.RoleAdmin:
		body = fmt.Sprintf("You are now admin at Event '%s' at %s !", ev.Title, ev.Start.Format(notification.TimeLayout))
	case event.RoleGuest:
		body = fmt.Sprintf("You are now guest at Event '%s' at %s !", ev.Title, ev.Start.Format(notification.TimeLayout))
	}

	return p.bus.Publish(ctx, notification.New(notification.CategoryUserRoleChanged, "User role", body, []string{u.Email}))
}

// PublishRegistration sends the welcome mail to a freshly registered user.
func (p *Publisher) PublishRegistration(ctx context.Context, email string) error {
	title := "Welcome to Calendar App"
	body := "You registered to Calendar App \n" +
		"\n Welcome! " +
		"\n Visit us at : https://lam-calendar-client.web.app "

	return p.bus.Publish(ctx, notification.New(notification.CategoryRegister, title, body, []string{email}))
}

func (p *Publisher) getEvent(ctx context.Context, eventID int64) (*event.Event, error) {
	ev, err := p.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return nil, fmt.Errorf("event %d: %w", eventID, ErrMissingReference)
		}
		return nil, fmt.Errorf("resolving event %d: %w", eventID, err)
	}
	return ev, nil
}
