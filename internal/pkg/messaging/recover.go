package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/storefront/internal/pkg/stacktrace"
)

// dispatch runs handler, turning a panic into ErrHandlerPanic, and logs failures.
func dispatch(ctx context.Context, driver string, handler Handler, msg *Message) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic in messaging handler",
				"driver", driver, "topic", msg.Topic, "panic", rvr,
				"stack", stacktrace.InternalPaths(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rvr)
		}
		if err != nil {
			slog.WarnContext(ctx, "messaging handler failed", "driver", driver, "topic", msg.Topic, "error", err)
		}
	}()

	return handler(ctx, msg)
}

func validateConsume(topic string, handler Handler) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
