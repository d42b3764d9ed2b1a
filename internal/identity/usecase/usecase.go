package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/clock"
	"github.com/shandysiswandi/storefront/internal/pkg/hash"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
	"github.com/shandysiswandi/storefront/internal/pkg/otp"
	"github.com/shandysiswandi/storefront/internal/pkg/uid"
	"github.com/shandysiswandi/storefront/internal/pkg/validator"
)

// Defaults applied by New when a Config field is not positive.
const (
	DefaultOTPTTL          = 10 * time.Minute
	DefaultResendCooldown  = 30 * time.Second
	DefaultSessionTTL      = 60 * time.Minute
	DefaultRegisterLockTTL = 15 * time.Second
)

// Config holds the tunables of the authentication flows.
type Config struct {
	// OTPTTL is how long an issued code stays valid.
	OTPTTL time.Duration
	// ResendCooldown is the minimum gap between two codes for one identity.
	ResendCooldown time.Duration
	// SessionTTL is the lifetime of a session token; it must match the JWT issuer.
	SessionTTL time.Duration
	// RegisterLockTTL bounds the per-email registration lock.
	RegisterLockTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.OTPTTL <= 0 {
		c.OTPTTL = DefaultOTPTTL
	}
	if c.ResendCooldown <= 0 {
		c.ResendCooldown = DefaultResendCooldown
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.RegisterLockTTL <= 0 {
		c.RegisterLockTTL = DefaultRegisterLockTTL
	}
	return c
}

// OTPIssuedEvent is handed to the publisher every time a code is issued.
type OTPIssuedEvent struct {
	IdentityID  int64
	Email       string
	DisplayName string
	Code        string
	Context     entity.VerificationContext
	ExpiresAt   time.Time
}

type repoDB interface {
	GetIdentityByEmail(ctx context.Context, email string) (*entity.Identity, error)
	GetIdentityByID(ctx context.Context, id int64) (*entity.Identity, error)

	CreateIdentity(ctx context.Context, in entity.NewIdentity) error
	SetPendingOTP(ctx context.Context, id int64, p entity.PendingOTP) error
	ConsumeOTP(ctx context.Context, in entity.ConsumeOTP) (bool, error)
}

type repoCache interface {
	// StartResendCooldown (re)starts the window unconditionally.
	StartResendCooldown(ctx context.Context, identityID int64, ttl time.Duration) error
	// AcquireResendCooldown starts the window only when none is running and
	// reports whether it did.
	AcquireResendCooldown(ctx context.Context, identityID int64, ttl time.Duration) (bool, error)
	ClearResendCooldown(ctx context.Context, identityID int64) error

	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	cfg           Config
	repoDB        repoDB
	repoCache     repoCache
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	password      hash.Hash
	otpHash       hash.Hash
	otp           otp.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      enforcer
}

type Dependency struct {
	Config        Config
	RepoDB        repoDB
	RepoCache     repoCache
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Password      hash.Hash
	OTPHash       hash.Hash
	OTP           otp.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		cfg:           dep.Config.withDefaults(),
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		password:      dep.Password,
		otpHash:       dep.OTPHash,
		otp:           dep.OTP,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}
