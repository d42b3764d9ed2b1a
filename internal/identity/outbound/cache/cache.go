package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
)

const (
	keyResendCooldown = "identity:otp:cooldown:"
	keyRevokedSession = "identity:session:revoked:"
)

// Cache keeps the short-lived identity state in Redis: the resend window of
// each identity and the ids of revoked session tokens.
type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewCache(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func cooldownKey(identityID int64) string {
	return keyResendCooldown + strconv.FormatInt(identityID, 10)
}

func (c *Cache) StartResendCooldown(ctx context.Context, identityID int64, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "StartResendCooldown")
	defer func() { c.endSpan(span, err) }()

	return c.client.Set(ctx, cooldownKey(identityID), 1, ttl).Err()
}

func (c *Cache) AcquireResendCooldown(ctx context.Context, identityID int64, ttl time.Duration) (ok bool, err error) {
	ctx, span := c.startSpan(ctx, "AcquireResendCooldown")
	defer func() { c.endSpan(span, err) }()

	return c.client.SetNX(ctx, cooldownKey(identityID), 1, ttl).Result()
}

// ClearResendCooldown ends the window of an identity early.
func (c *Cache) ClearResendCooldown(ctx context.Context, identityID int64) (err error) {
	ctx, span := c.startSpan(ctx, "ClearResendCooldown")
	defer func() { c.endSpan(span, err) }()

	return c.client.Del(ctx, cooldownKey(identityID)).Err()
}

// RevokeSession marks a token id as revoked for ttl. A non-positive ttl
// means the token has already expired and nothing is stored.
func (c *Cache) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) (err error) {
	if tokenID == "" || ttl <= 0 {
		return nil
	}

	ctx, span := c.startSpan(ctx, "RevokeSession")
	defer func() { c.endSpan(span, err) }()

	return c.client.Set(ctx, keyRevokedSession+tokenID, 1, ttl).Err()
}

func (c *Cache) IsSessionRevoked(ctx context.Context, tokenID string) (revoked bool, err error) {
	if tokenID == "" {
		return false, nil
	}

	ctx, span := c.startSpan(ctx, "IsSessionRevoked")
	defer func() { c.endSpan(span, err) }()

	n, err := c.client.Exists(ctx, keyRevokedSession+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("identity.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
