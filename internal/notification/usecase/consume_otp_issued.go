package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/shandysiswandi/storefront/internal/notification/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
)

type ConsumeOTPIssuedInput struct {
	IdentityID  int64     `validate:"required,gt=0"`
	Email       string    `validate:"required,email"`
	DisplayName string    `validate:"omitempty,max=100"`
	Code        string    `validate:"required,numeric"`
	Purpose     string    `validate:"required,oneof=register login"`
	ExpiresAt   time.Time
}

// ConsumeOTPIssued emails an issued code once. Malformed and already expired
// codes are dropped, as are redeliveries of a code already sent. A send that
// keeps failing after the retries is returned so the broker can redeliver.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "identity_id", in.IdentityID, "error", err)
		return nil
	}

	if !s.clock.Now().Before(in.ExpiresAt) {
		slog.WarnContext(ctx, "skip sending expired otp", "identity_id", in.IdentityID, "purpose", in.Purpose, "expires_at", in.ExpiresAt)
		return nil
	}

	msg := entity.OTPMail{
		IdentityID:  in.IdentityID,
		To:          in.Email,
		DisplayName: in.DisplayName,
		Code:        in.Code,
		Purpose:     in.Purpose,
		ExpiresAt:   in.ExpiresAt,
	}

	key := deliveryKey(in)

	ran := false
	var sendErr error
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		ran = true
		sendErr = s.sendOTP(ctx, msg)
		return sendErr
	},
		idempotency.WithLockDuration(s.cfg.DedupLock),
		idempotency.WithStateTTL(in.ExpiresAt.Sub(s.clock.Now())),
		idempotency.WithReleaseOnError(),
	)

	switch {
	case ran:
		if sendErr != nil {
			return sendErr
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to record sent otp", "identity_id", in.IdentityID, "error", err)
		}
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "skip duplicate otp delivery", "identity_id", in.IdentityID, "purpose", in.Purpose, "reason", err)
		return nil
	default:
		// the dedup store is unreachable; a duplicate email beats a lost code
		slog.WarnContext(ctx, "failed to dedupe otp delivery", "identity_id", in.IdentityID, "error", err)
		return s.sendOTP(ctx, msg)
	}
}

// deliveryKey names one issued code; every issuance gets its own expiry.
func deliveryKey(in ConsumeOTPIssuedInput) string {
	return fmt.Sprintf("notification:otp:%d:%s:%d", in.IdentityID, in.Purpose, in.ExpiresAt.UnixNano())
}

// sendOTP delivers msg with capped exponential backoff.
func (s *Usecase) sendOTP(ctx context.Context, msg entity.OTPMail) error {
	b := retry.NewExponential(s.cfg.SendBaseDelay)
	b = retry.WithCappedDuration(s.cfg.SendMaxDelay, b)
	b = retry.WithMaxRetries(s.cfg.SendAttempts-1, b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := s.repoMail.SendOTP(ctx, msg); err != nil {
			slog.WarnContext(ctx, "failed to send otp email", "identity_id", msg.IdentityID, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "giving up sending otp email", "identity_id", msg.IdentityID, "attempts", attempt, "error", err)
		return err
	}

	slog.InfoContext(ctx, "otp email sent", "identity_id", msg.IdentityID, "purpose", msg.Purpose)
	return nil
}
