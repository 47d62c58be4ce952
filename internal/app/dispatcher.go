// internal/app/dispatcher.go
package app

import (
	"context"
	"errors"
	"fmt"

	"calendar_notifier/internal/domain/delivery"
	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// Dispatcher is the single bus listener. It fans a published notification
// out to each recipient's enabled channels: resolve the recipient, look up
// their delivery mode for the category, then call the matching transports.
type Dispatcher struct {
	users  user.Directory
	prefs  *PreferenceResolver
	mailer delivery.Mailer
	popup  delivery.PopupSender
	logger *logrus.Logger
}

func NewDispatcher(
	users user.Directory,
	prefs *PreferenceResolver,
	mailer delivery.Mailer,
	popup delivery.PopupSender,
	logger *logrus.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:  users,
		prefs:  prefs,
		mailer: mailer,
		popup:  popup,
		logger: logger,
	}
}

// Handle processes one notification, recipients in list order.
//
// An unresolvable recipient stops the remaining recipients, not just the
// failed one, and a channel failure does the same with the error propagated
// to the publisher. All-or-nothing per publish is suspect (the previous
// implementation returned inside its loop where a skip was likely intended)
// but callers' compatibility tests depend on it, so it stays until product
// intent says otherwise.
func (d *Dispatcher) Handle(ctx context.Context, n notification.Notification) error {
	for _, email := range n.Recipients {
		u, err := d.users.GetByEmail(ctx, email)
		if errors.Is(err, user.ErrUserNotFound) {
			d.logger.WithFields(logrus.Fields{
				"notification_id": n.ID,
				"recipient":       email,
			}).Warn("recipient not found, dropping rest of notification")
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolving recipient %s: %w", email, err)
		}

		if n.Category == notification.CategoryRegister {
			// Welcome mail is system policy, not a preference.
			if err := d.mailer.Send(ctx, u.Email, n.Title, n.Body); err != nil {
				return fmt.Errorf("sending welcome mail to %s: %w", u.Email, err)
			}
			continue
		}

		mode := d.prefs.Resolve(ctx, u.ID, n.Category)

		d.logger.WithFields(logrus.Fields{
			"notification_id": n.ID,
			"recipient":       u.Email,
			"category":        n.Category,
			"mode":            mode,
		}).Debug("dispatching to recipient")

		switch mode {
		case notification.ModeNone:
			// Recipient opted out of this category.
		case notification.ModeEmail:
			if err := d.mailer.Send(ctx, u.Email, n.Title, n.Body); err != nil {
				return fmt.Errorf("sending mail to %s: %w", u.Email, err)
			}
		case notification.ModePopup:
			if err := d.popup.Push(ctx, u.Email, n); err != nil {
				return fmt.Errorf("pushing popup to %s: %w", u.Email, err)
			}
		case notification.ModeAll:
			if err := d.mailer.Send(ctx, u.Email, n.Title, n.Body); err != nil {
				return fmt.Errorf("sending mail to %s: %w", u.Email, err)
			}
			if err := d.popup.Push(ctx, u.Email, n); err != nil {
				return fmt.Errorf("pushing popup to %s: %w", u.Email, err)
			}
		}
	}
	return nil
}
