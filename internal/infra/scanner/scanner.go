package scanner

import (
	"context"
	"fmt"
	"time"

	"calendar_notifier/internal/app"
	"calendar_notifier/internal/domain/event"
	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// scanHorizon is how far ahead a tick looks for candidate events. Events
// past the horizon are picked up by a later tick.
const scanHorizon = 24 * time.Hour

// Scanner is the recurring upcoming-event check. Once per tick it lists
// near-term events and, for each attendee, decides via their lead-time band
// and the time-window evaluator whether their reminder fires now.
//
// A tick is a pure function of the `now` it captures plus directory reads:
// no scan state survives between ticks, so overlapping runs are harmless and
// not guarded against.
type Scanner struct {
	cronEngine *cron.Cron
	events     event.Directory
	users      user.Directory
	prefs      *app.PreferenceResolver
	bus        notification.Bus
	logger     *logrus.Logger
	cronSpec   string
	tick       time.Duration
}

func New(
	events event.Directory,
	users user.Directory,
	prefs *app.PreferenceResolver,
	bus notification.Bus,
	logger *logrus.Logger,
	cronSpec string, // e.g. "@every 1m"
	tick time.Duration, // the scheduling period, feeds the window arithmetic
) *Scanner {
	return &Scanner{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		events:     events,
		users:      users,
		prefs:      prefs,
		bus:        bus,
		logger:     logger,
		cronSpec:   cronSpec,
		tick:       tick,
	}
}

// Start registers the tick job and starts the cron engine.
func (s *Scanner) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.tick)
		defer cancel()
		s.RunTick(ctx, time.Now())
	})
	if err != nil {
		return fmt.Errorf("adding scan job for spec %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("upcoming-event scanner started")
	return nil
}

// Stop halts the cron engine and waits for an in-flight tick to finish.
func (s *Scanner) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("upcoming-event scanner stopped")
}

// RunTick performs one scan against the directories as of now. A directory
// read failure ends the tick with nothing published; the next tick is
// unaffected.
func (s *Scanner) RunTick(ctx context.Context, now time.Time) {
	events, err := s.events.ListStartingWithin(ctx, now, scanHorizon)
	if err != nil {
		s.logger.WithError(err).Error("tick aborted: listing upcoming events failed")
		return
	}

	s.logger.WithField("candidates", len(events)).Debug("scanning upcoming events")

	for _, ev := range events {
		for _, att := range ev.Attendees {
			s.checkAttendee(ctx, now, ev, att)
		}
	}
}

func (s *Scanner) checkAttendee(ctx context.Context, now time.Time, ev *event.Event, att event.Attendee) {
	if s.prefs.Resolve(ctx, att.UserID, notification.CategoryUpcomingEvent) == notification.ModeNone {
		return
	}

	u, err := s.users.GetByID(ctx, att.UserID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event_id": ev.ID,
			"user_id":  att.UserID,
		}).Warn("skipping attendee: resolution failed")
		return
	}

	lead := s.prefs.UpcomingLeadTime(ctx, att.UserID)
	zone := u.City.Timezone()

	elapsed := notification.ElapsedSeconds(now, ev.Start, zone)
	if !notification.InWindow(elapsed, lead, s.tick) {
		return
	}

	title := "Upcoming event"
	body := fmt.Sprintf("Event '%s' at %s is starting soon!", ev.Title, ev.Start.In(zone).Format(notification.TimeLayout))
	n := notification.New(notification.CategoryUpcomingEvent, title, body, []string{att.Email})

	s.logger.WithFields(logrus.Fields{
		"event_id":  ev.ID,
		"recipient": att.Email,
		"lead_time": lead,
		"elapsed_s": elapsed,
	}).Info("upcoming-event reminder fires")

	if err := s.bus.Publish(ctx, n); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event_id":  ev.ID,
			"recipient": att.Email,
		}).Error("publishing upcoming-event reminder failed")
	}
}
