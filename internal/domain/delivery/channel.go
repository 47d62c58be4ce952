// internal/domain/delivery/channel.go
package delivery

import "context"

// Mailer is the outbound mail transport. One message per call, synchronous,
// no retry; a failure surfaces to the caller and is not re-attempted.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// PopupSender pushes a payload to whoever is live-subscribed to a topic.
// Topic is the recipient's email by convention.
type PopupSender interface {
	Push(ctx context.Context, topic string, payload any) error
}
