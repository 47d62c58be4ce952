// internal/domain/notification/bus.go
package notification

import "context"

// Bus carries rendered notifications from producers to the dispatch
// listener. Publish is synchronous: it returns once fan-out for that
// notification has been attempted, and surfaces the first fan-out error.
// Reference validation happens in the producer before Publish is called.
type Bus interface {
	Publish(ctx context.Context, n Notification) error
}
