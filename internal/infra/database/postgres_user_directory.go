package database

import (
	"context"
	"database/sql"
	"fmt"

	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresUserDirectory reads recipient identities and notification settings
// from the application's account tables. The engine never writes here;
// account and settings mutation happen upstream.
type PostgresUserDirectory struct {
	db *sql.DB
}

func NewPostgresUserDirectory(db *sql.DB) *PostgresUserDirectory {
	return &PostgresUserDirectory{db: db}
}

func (d *PostgresUserDirectory) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, email, name, city FROM users WHERE email = $1`

	u := &user.User{}
	var city string
	err := d.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &city)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	u.City = user.City(city)
	return u, nil
}

func (d *PostgresUserDirectory) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT id, email, name, city FROM users WHERE id = $1`

	u := &user.User{}
	var city string
	err := d.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &city)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	u.City = user.City(city)
	return u, nil
}

func (d *PostgresUserDirectory) GetPreferences(ctx context.Context, userID int64) (notification.Preferences, error) {
	query := `SELECT event_changed, invite_guest, uninvite_guest, user_status, user_role,
                      cancel_event, upcoming_event, notification_range
               FROM notification_settings WHERE user_id = $1`

	var p notification.Preferences
	err := d.db.QueryRowContext(ctx, query, userID).Scan(
		&p.EventChanged,
		&p.InviteGuest,
		&p.UninviteGuest,
		&p.UserStatusChanged,
		&p.UserRoleChanged,
		&p.CancelEvent,
		&p.UpcomingEvent,
		&p.UpcomingLeadTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return notification.Preferences{}, user.ErrNoPreferences
		}
		return notification.Preferences{}, fmt.Errorf("error getting notification settings: %w", err)
	}
	return p, nil
}
