package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/storefront/internal/notification/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/clock"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/validator"
)

const (
	DefaultSendAttempts  = 5
	DefaultSendBaseDelay = 500 * time.Millisecond
	DefaultSendMaxDelay  = 10 * time.Second
	DefaultDedupLock     = 2 * time.Minute
)

// Config bounds the delivery retry of one message.
type Config struct {
	// SendAttempts counts the first try.
	SendAttempts  uint64
	SendBaseDelay time.Duration
	SendMaxDelay  time.Duration
	// DedupLock bounds how long one delivery holds its message key.
	DedupLock time.Duration
}

func (c Config) withDefaults() Config {
	if c.SendAttempts == 0 {
		c.SendAttempts = DefaultSendAttempts
	}
	if c.SendBaseDelay <= 0 {
		c.SendBaseDelay = DefaultSendBaseDelay
	}
	if c.SendMaxDelay <= 0 {
		c.SendMaxDelay = DefaultSendMaxDelay
	}
	if c.DedupLock <= 0 {
		c.DedupLock = DefaultDedupLock
	}
	return c
}

type repoMail interface {
	SendOTP(ctx context.Context, in entity.OTPMail) error
}

type Usecase struct {
	cfg       Config
	repoMail  repoMail
	idemp     idempotency.Idempotency
	validator validator.Validator
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	Config      Config
	RepoMail    repoMail
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		cfg:       dep.Config.withDefaults(),
		repoMail:  dep.RepoMail,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
