package notification

import (
	"context"
	"time"

	"github.com/shandysiswandi/storefront/internal/notification/inbound"
	"github.com/shandysiswandi/storefront/internal/notification/outbound/email"
	"github.com/shandysiswandi/storefront/internal/notification/usecase"
	"github.com/shandysiswandi/storefront/internal/pkg/clock"
	"github.com/shandysiswandi/storefront/internal/pkg/config"
	"github.com/shandysiswandi/storefront/internal/pkg/goroutine"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/mail"
	"github.com/shandysiswandi/storefront/internal/pkg/messaging"
	"github.com/shandysiswandi/storefront/internal/pkg/uid"
	"github.com/shandysiswandi/storefront/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	Messaging   messaging.Consumer         `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.NewNotification(usecase.Dependency{
		Config: usecase.Config{
			SendAttempts:  uint64(max(dep.Config.GetInt64("modules.notification.email.send_attempts"), 0)),
			SendBaseDelay: time.Duration(dep.Config.GetInt64("modules.notification.email.retry_base_millis")) * time.Millisecond,
			SendMaxDelay:  dep.Config.GetSecond("modules.notification.email.retry_max_seconds"),
			DedupLock:     dep.Config.GetSecond("modules.notification.email.dedup_lock_seconds"),
		},
		RepoMail:    email.New(dep.Mail, dep.Instrument),
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterMQConsumer(dep.Ctx, inbound.ConsumerConfig{
		Enabled:     dep.Config.GetArray("modules.notification.consumer_names"),
		Concurrency: dep.Config.GetInt("modules.notification.consumer_concurrency"),
	}, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
