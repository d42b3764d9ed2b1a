package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/storefront/internal/notification/usecase"
	"github.com/shandysiswandi/storefront/internal/pkg/goroutine"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/messaging"
	"github.com/shandysiswandi/storefront/internal/pkg/uid"
	"github.com/shandysiswandi/storefront/internal/shared/event"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
}

// ConsumerConfig selects which consumers run and how wide.
type ConsumerConfig struct {
	// Enabled lists consumer names; empty runs none.
	Enabled     []string
	Concurrency int
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg ConsumerConfig,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	consumers := []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.OTPIssuedConsumerNotification,
			topic:   event.OTPIssuedTopic,
			handler: h.OTPIssuedNotification,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(cfg.Enabled, c.name) {
			continue
		}

		routine.Go(ctx, func(ctx context.Context) error {
			slog.InfoContext(ctx, "running consumer", "consumer", c.name, "topic", c.topic)
			err := consumer.Consume(ctx, c.topic, c.handler,
				messaging.WithGroup(c.name),
				messaging.WithConcurrency(cfg.Concurrency),
			)
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}
}
