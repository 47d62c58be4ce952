package app

import (
	"context"
	"testing"
	"time"

	"calendar_notifier/internal/domain/event"
	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureEvent() *event.Event {
	return &event.Event{
		ID:    42,
		Title: "Sprint Review",
		Start: time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC),
		Attendees: []event.Attendee{
			{UserID: 1, Email: "org@example.com", Role: event.RoleOrganizer, Status: event.StatusApproved},
			{UserID: 2, Email: "admin@example.com", Role: event.RoleAdmin, Status: event.StatusApproved},
			{UserID: 3, Email: "guest@example.com", Role: event.RoleGuest, Status: event.StatusTentative},
		},
	}
}

func TestPublishEventChangedAddressesAllAttendees(t *testing.T) {
	b := &fakeBus{}
	users := newFakeUserDirectory()
	events := newFakeEventDirectory(fixtureEvent())
	p := NewPublisher(b, users, events, testLogger())

	require.NoError(t, p.PublishEventChanged(context.Background(), 42))

	require.Len(t, b.published, 1)
	n := b.published[0]
	assert.Equal(t, notification.CategoryEventChanged, n.Category)
	assert.Equal(t, "Event Changed", n.Title)
	assert.Contains(t, n.Body, "Sprint Review")
	assert.Contains(t, n.Body, "2025-03-10 14:00 UTC")
	assert.Equal(t, []string{"org@example.com", "admin@example.com", "guest@example.com"}, n.Recipients)
}

func TestPublishEventCancelledAddressesAllAttendees(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(fixtureEvent()), testLogger())

	require.NoError(t, p.PublishEventCancelled(context.Background(), 42))

	require.Len(t, b.published, 1)
	assert.Equal(t, notification.CategoryCancelEvent, b.published[0].Category)
	assert.Contains(t, b.published[0].Body, "was cancelled!")
	assert.Len(t, b.published[0].Recipients, 3)
}

func TestPublishMissingEventReturnsErrMissingReference(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(), testLogger())

	err := p.PublishEventChanged(context.Background(), 999)

	assert.ErrorIs(t, err, ErrMissingReference)
	assert.Empty(t, b.published, "nothing may be fanned out for a dangling reference")
}

func TestPublishGuestInvitedTargetsOnlyInvitee(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(fixtureEvent()), testLogger())

	require.NoError(t, p.PublishGuestInvited(context.Background(), 42, "invitee@example.com"))

	require.Len(t, b.published, 1)
	n := b.published[0]
	assert.Equal(t, notification.CategoryInviteGuest, n.Category)
	assert.Equal(t, "New Event Invitation", n.Title)
	assert.Contains(t, n.Body, "You were invited to Event 'Sprint Review'")
	assert.Equal(t, []string{"invitee@example.com"}, n.Recipients)
}

func TestPublishGuestRemovedTargetsOnlyRemovedGuest(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(fixtureEvent()), testLogger())

	require.NoError(t, p.PublishGuestRemoved(context.Background(), 42, "guest@example.com"))

	require.Len(t, b.published, 1)
	assert.Equal(t, notification.CategoryUninviteGuest, b.published[0].Category)
	assert.Contains(t, b.published[0].Body, "You were uninvited from Event 'Sprint Review'")
	assert.Equal(t, []string{"guest@example.com"}, b.published[0].Recipients)
}

func TestPublishUserStatusChangedTargetsOrganizerAndAdmins(t *testing.T) {
	b := &fakeBus{}
	users := newFakeUserDirectory(&user.User{ID: 3, Email: "guest@example.com", Name: "Guy Guest"})
	p := NewPublisher(b, users, newFakeEventDirectory(fixtureEvent()), testLogger())

	require.NoError(t, p.PublishUserStatusChanged(context.Background(), 42, 3))

	require.Len(t, b.published, 1)
	n := b.published[0]
	assert.Equal(t, notification.CategoryUserStatusChanged, n.Category)
	assert.Equal(t, "User status", n.Title)
	assert.Equal(t, []string{"org@example.com", "admin@example.com"}, n.Recipients)
}

func TestPublishUserStatusChangedMessageByStatus(t *testing.T) {
	ev := fixtureEvent()
	ev.Attendees[2].Status = event.StatusApproved

	b := &fakeBus{}
	users := newFakeUserDirectory(&user.User{ID: 3, Email: "guest@example.com", Name: "Guy Guest"})
	p := NewPublisher(b, users, newFakeEventDirectory(ev), testLogger())

	require.NoError(t, p.PublishUserStatusChanged(context.Background(), 42, 3))
	require.Len(t, b.published, 1)
	assert.Contains(t, b.published[0].Body, "User Guy Guest approved event 'Sprint Review'")

	ev.Attendees[2].Status = event.StatusRejected
	require.NoError(t, p.PublishUserStatusChanged(context.Background(), 42, 3))
	require.Len(t, b.published, 2)
	assert.Contains(t, b.published[1].Body, "User Guy Guest rejected event 'Sprint Review'")
}

func TestPublishUserStatusChangedUnknownUserIsMissingReference(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(fixtureEvent()), testLogger())

	// Attached to the event but gone from the user directory.
	err := p.PublishUserStatusChanged(context.Background(), 42, 3)
	assert.ErrorIs(t, err, ErrMissingReference)

	// Never attached to the event at all.
	err = p.PublishUserStatusChanged(context.Background(), 42, 77)
	assert.ErrorIs(t, err, ErrMissingReference)

	assert.Empty(t, b.published)
}

func TestPublishUserRoleChangedMessageByRole(t *testing.T) {
	ev := fixtureEvent()
	b := &fakeBus{}
	users := newFakeUserDirectory(&user.User{ID: 2, Email: "admin@example.com", Name: "Ada"})
	p := NewPublisher(b, users, newFakeEventDirectory(ev), testLogger())

	require.NoError(t, p.PublishUserRoleChanged(context.Background(), 42, 2))
	require.Len(t, b.published, 1)

	n := b.published[0]
	assert.Equal(t, notification.CategoryUserRoleChanged, n.Category)
	assert.Equal(t, "User role", n.Title)
	assert.Contains(t, n.Body, "You are now admin at Event 'Sprint Review'")
	assert.Equal(t, []string{"admin@example.com"}, n.Recipients)

	ev.Attendees[1].Role = event.RoleGuest
	require.NoError(t, p.PublishUserRoleChanged(context.Background(), 42, 2))
	require.Len(t, b.published, 2)
	assert.Contains(t, b.published[1].Body, "You are now guest at Event 'Sprint Review'")
}

func TestPublishRegistrationWelcomeMail(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(), testLogger())

	require.NoError(t, p.PublishRegistration(context.Background(), "new@example.com"))

	require.Len(t, b.published, 1)
	n := b.published[0]
	assert.Equal(t, notification.CategoryRegister, n.Category)
	assert.Equal(t, "Welcome to Calendar App", n.Title)
	assert.Contains(t, n.Body, "You registered to Calendar App")
	assert.Equal(t, []string{"new@example.com"}, n.Recipients)
}

func TestGenericPublishPassesThrough(t *testing.T) {
	b := &fakeBus{}
	p := NewPublisher(b, newFakeUserDirectory(), newFakeEventDirectory(), testLogger())

	err := p.Publish(context.Background(), notification.CategoryEventChanged, "t", "b", []string{"x@y.z"})

	require.NoError(t, err)
	require.Len(t, b.published, 1)
	assert.Equal(t, "t", b.published[0].Title)
	assert.Equal(t, []string{"x@y.z"}, b.published[0].Recipients)
}
