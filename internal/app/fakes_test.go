package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"calendar_notifier/internal/domain/event"
	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeUserDirectory struct {
	byEmail  map[string]*user.User
	byID     map[int64]*user.User
	prefs    map[int64]notification.Preferences
	prefsErr error
}

func newFakeUserDirectory(users ...*user.User) *fakeUserDirectory {
	d := &fakeUserDirectory{
		byEmail: make(map[string]*user.User),
		byID:    make(map[int64]*user.User),
		prefs:   make(map[int64]notification.Preferences),
	}
	for _, u := range users {
		d.byEmail[u.Email] = u
		d.byID[u.ID] = u
	}
	return d
}

func (d *fakeUserDirectory) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := d.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (d *fakeUserDirectory) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := d.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (d *fakeUserDirectory) GetPreferences(_ context.Context, userID int64) (notification.Preferences, error) {
	if d.prefsErr != nil {
		return notification.Preferences{}, d.prefsErr
	}
	if p, ok := d.prefs[userID]; ok {
		return p, nil
	}
	return notification.Preferences{}, user.ErrNoPreferences
}

type fakeEventDirectory struct {
	events  map[int64]*event.Event
	listErr error
}

func newFakeEventDirectory(events ...*event.Event) *fakeEventDirectory {
	d := &fakeEventDirectory{events: make(map[int64]*event.Event)}
	for _, ev := range events {
		d.events[ev.ID] = ev
	}
	return d
}

func (d *fakeEventDirectory) GetByID(_ context.Context, id int64) (*event.Event, error) {
	if ev, ok := d.events[id]; ok {
		return ev, nil
	}
	return nil, event.ErrEventNotFound
}

func (d *fakeEventDirectory) ListStartingWithin(_ context.Context, now time.Time, horizon time.Duration) ([]*event.Event, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	matches := make([]*event.Event, 0)
	for _, ev := range d.events {
		if ev.Start.After(now) && ev.Start.Before(now.Add(horizon)) {
			matches = append(matches, ev)
		}
	}
	return matches, nil
}

// channelLog records mailer and popup calls in a single interleaved order so
// tests can assert email-before-popup sequencing.
type channelLog struct {
	calls []string
}

type recordingMailer struct {
	log    *channelLog
	failTo string // when set, Send to this address fails
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	if m.failTo != "" && to == m.failTo {
		return fmt.Errorf("smtp send to %s: connection refused", to)
	}
	m.log.calls = append(m.log.calls, "email:"+to+":"+subject)
	return nil
}

type recordingPopup struct {
	log    *channelLog
	failTo string
}

func (p *recordingPopup) Push(_ context.Context, topic string, _ any) error {
	if p.failTo != "" && topic == p.failTo {
		return fmt.Errorf("push to %s: no transport", topic)
	}
	p.log.calls = append(p.log.calls, "popup:"+topic)
	return nil
}

type fakeBus struct {
	published  []notification.Notification
	publishErr error
}

func (b *fakeBus) Publish(_ context.Context, n notification.Notification) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, n)
	return nil
}
