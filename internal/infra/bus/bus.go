// internal/infra/bus/bus.go
package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"calendar_notifier/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// ErrNoRecipients rejects a publish whose recipient list is empty. The bus
// performs no other validation: whether the referenced event or user exists
// is settled by the producer before it publishes.
var ErrNoRecipients = errors.New("notification has no recipients")

// Handler consumes one published notification on the publisher's goroutine.
type Handler func(ctx context.Context, n notification.Notification) error

// Bus is the in-process broker. Publish runs every subscribed handler
// synchronously and only returns once fan-out for that notification has been
// attempted. Concurrent publishers are fine; each publish is dispatched
// independently with no ordering between them. There is no queue, so a slow
// channel send blocks the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *logrus.Logger
}

func New(logger *logrus.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a handler for every subsequent publish. In practice
// there is exactly one subscriber, the dispatch listener.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers n to every handler in subscription order, stopping at the
// first failure and returning it to the publisher.
func (b *Bus) Publish(ctx context.Context, n notification.Notification) error {
	if len(n.Recipients) == 0 {
		return ErrNoRecipients
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	b.logger.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"category":        n.Category,
		"recipients":      len(n.Recipients),
	}).Debug("publishing notification")

	for _, h := range handlers {
		if err := h(ctx, n); err != nil {
			return fmt.Errorf("dispatching notification %s: %w", n.ID, err)
		}
	}
	return nil
}
