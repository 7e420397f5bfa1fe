package events

import (
	"context"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"go.uber.org/zap"
)

// Sink is anything events can be forwarded to.
type Sink interface {
	Publish(ctx context.Context, key string, payload any) error
}

// ForwardResult counts what a Forward loop did.
type ForwardResult struct {
	Forwarded uint64
	Failed    uint64
}

// Forward drains sub into sink until ctx is done or sub is closed. keyFn
// picks the message key for each event. A failed publish is logged and
// counted; the loop keeps going. Once ctx is done, events still buffered in
// sub are left undelivered.
func Forward[T any](ctx context.Context, sub <-chan T, sink Sink, keyFn func(T) string, logger logging.Logger) ForwardResult {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	var res ForwardResult
	for {
		if ctx.Err() != nil {
			return res
		}
		select {
		case <-ctx.Done():
			return res
		case event, ok := <-sub:
			if !ok {
				return res
			}
			key := keyFn(event)
			if err := sink.Publish(ctx, key, event); err != nil {
				res.Failed++
				logger.Warn("failed to forward event", zap.String("key", key), zap.Error(err))
				continue
			}
			res.Forwarded++
		}
	}
}
