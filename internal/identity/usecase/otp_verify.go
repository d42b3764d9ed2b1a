package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
)

const (
	msgIdentityNotFound     = "User not found"
	msgInvalidOrExpiredCode = "Invalid or expired OTP"
)

type VerifyOTPInput struct {
	IdentityID int64                      `json:"identityId" validate:"required,gt=0"`
	Code       string                     `json:"otp" validate:"required"`
	Context    entity.VerificationContext `json:"-"`
}

type VerifyOTPOutput struct {
	Verified bool

	// Session fields are set by the login context only.
	Session    *jwt.Session
	Token      string
	SessionTTL time.Duration
}

// VerifyOTP consumes the pending code of an identity in the given context.
// Every failure of the code itself (wrong digits, nothing pending, issued by
// another context, expired, already used) reports the same error.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	flow, err := lookupVerification(in.Context)
	if err != nil {
		return nil, err
	}

	idn, err := s.repoDB.GetIdentityByID(ctx, in.IdentityID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusinessCause(entity.ErrIdentityNotFound, msgIdentityNotFound, goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get identity by id", "identity_id", in.IdentityID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var (
		stored  string
		sameCtx bool
		fresh   bool
	)
	if p := idn.Pending; p != nil {
		stored = p.Hash
		sameCtx = p.Context == in.Context
		fresh = s.clock.Now().Before(p.ExpiresAt)
	}
	matched := s.otpHash.Verify(stored, in.Code)
	eligible := flow.eligible(idn)

	if !matched || !sameCtx || !fresh || !eligible {
		slog.WarnContext(ctx, "otp verification rejected", "identity_id", idn.ID, "context", in.Context.String())
		return nil, invalidOrExpiredCode()
	}

	consumed, err := s.repoDB.ConsumeOTP(ctx, entity.ConsumeOTP{
		IdentityID:   idn.ID,
		ExpectedHash: stored,
		MarkVerified: flow.markVerified,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume otp", "identity_id", idn.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !consumed {
		// a concurrent verify or resend replaced the code first
		return nil, invalidOrExpiredCode()
	}

	// nothing is pending anymore, so the next login may send a code at once
	s.clearResendCooldown(ctx, idn.ID)

	if flow.markVerified {
		idn.IsVerified = true
	}
	idn.Pending = nil

	return flow.complete(s, ctx, idn)
}

func invalidOrExpiredCode() error {
	return goerror.NewBusinessCause(entity.ErrInvalidOrExpiredCode, msgInvalidOrExpiredCode, goerror.CodeUnauthorized)
}
