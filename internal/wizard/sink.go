package wizard

import (
	"context"

	"bemestar/internal/model"
)

// Sink receives one finished payload. Inserts are not assumed idempotent, so
// the controller never retries on its own.
type Sink interface {
	Submit(ctx context.Context, p *model.Payload) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, p *model.Payload) error

func (f SinkFunc) Submit(ctx context.Context, p *model.Payload) error { return f(ctx, p) }
