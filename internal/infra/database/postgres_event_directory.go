package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"calendar_notifier/internal/domain/event"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresEventDirectory reads events and their guest lists. Read-only from
// the engine's side: event CRUD lives in the surrounding application.
type PostgresEventDirectory struct {
	db *sql.DB
}

func NewPostgresEventDirectory(db *sql.DB) *PostgresEventDirectory {
	return &PostgresEventDirectory{db: db}
}

func (d *PostgresEventDirectory) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	query := `SELECT id, title, start_time FROM events WHERE id = $1`

	ev := &event.Event{}
	err := d.db.QueryRowContext(ctx, query, id).Scan(&ev.ID, &ev.Title, &ev.Start)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}

	if ev.Attendees, err = d.listAttendees(ctx, ev.ID); err != nil {
		return nil, err
	}
	return ev, nil
}

func (d *PostgresEventDirectory) ListStartingWithin(ctx context.Context, now time.Time, horizon time.Duration) ([]*event.Event, error) {
	query := `SELECT id, title, start_time
               FROM events
               WHERE start_time > $1 AND start_time < $2
               ORDER BY start_time`

	rows, err := d.db.QueryContext(ctx, query, now, now.Add(horizon))
	if err != nil {
		return nil, fmt.Errorf("error listing upcoming events: %w", err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		ev := &event.Event{}
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Start); err != nil {
			return nil, fmt.Errorf("error scanning upcoming event: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upcoming events: %w", err)
	}

	for _, ev := range events {
		if ev.Attendees, err = d.listAttendees(ctx, ev.ID); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (d *PostgresEventDirectory) listAttendees(ctx context.Context, eventID int64) ([]event.Attendee, error) {
	query := `SELECT r.user_id, u.email, r.role_type, r.status_type
               FROM event_roles r
               JOIN users u ON u.id = r.user_id
               WHERE r.event_id = $1
               ORDER BY r.id`

	rows, err := d.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendees for event %d: %w", eventID, err)
	}
	defer rows.Close()

	attendees := make([]event.Attendee, 0)
	for rows.Next() {
		var a event.Attendee
		if err := rows.Scan(&a.UserID, &a.Email, &a.Role, &a.Status); err != nil {
			return nil, fmt.Errorf("error scanning attendee for event %d: %w", eventID, err)
		}
		attendees = append(attendees, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendees for event %d: %w", eventID, err)
	}
	return attendees, nil
}
