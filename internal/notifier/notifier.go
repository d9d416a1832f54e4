package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Notifier delivers a formatted message to a messaging endpoint.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// DeliveryError reports a message the endpoint did not accept.
type DeliveryError struct {
	Status int
	Body   string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("delivery failed: status %d, body: %s", e.Status, e.Body)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.Log.Info().Str("notifier", "log").Msg(text)
	return nil
}
