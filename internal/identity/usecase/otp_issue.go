package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
)

// newPendingOTP draws a fresh code and the pending record storing its hash.
func (s *Usecase) newPendingOTP(vc entity.VerificationContext) (string, entity.PendingOTP, error) {
	code := s.otp.Generate()

	codeHash, err := s.otpHash.Hash(code)
	if err != nil {
		return "", entity.PendingOTP{}, err
	}

	return code, entity.PendingOTP{
		Hash:      string(codeHash),
		Context:   vc,
		ExpiresAt: s.clock.Now().Add(s.cfg.OTPTTL),
	}, nil
}

// dispatchOTP hands the code to the notifier. Delivery problems never fail
// the flow; the user can ask for a resend.
func (s *Usecase) dispatchOTP(ctx context.Context, idn *entity.Identity, code string, p entity.PendingOTP) {
	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		IdentityID:  idn.ID,
		Email:       idn.Email,
		DisplayName: idn.DisplayName,
		Code:        code,
		Context:     p.Context,
		ExpiresAt:   p.ExpiresAt,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp issued", "identity_id", idn.ID, "context", p.Context.String(), "error", err)
	}
}

func (s *Usecase) startResendCooldown(ctx context.Context, identityID int64) {
	if err := s.repoCache.StartResendCooldown(ctx, identityID, s.cfg.ResendCooldown); err != nil {
		slog.ErrorContext(ctx, "failed to start resend cooldown", "identity_id", identityID, "error", err)
	}
}

// acquireResendCooldown starts the send window of an identity, failing with
// ResendTooSoon while one is running. The returned release ends the window
// again for callers that end up sending nothing. An unreachable store lets
// the request through.
func (s *Usecase) acquireResendCooldown(ctx context.Context, identityID int64) (func(), error) {
	acquired, err := s.repoCache.AcquireResendCooldown(ctx, identityID, s.cfg.ResendCooldown)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check resend cooldown", "identity_id", identityID, "error", err)
		return func() {}, nil
	}
	if !acquired {
		return nil, goerror.NewBusinessCause(entity.ErrResendTooSoon, "Please wait before requesting another OTP.", goerror.CodeTooManyRequest)
	}

	return func() { s.clearResendCooldown(context.WithoutCancel(ctx), identityID) }, nil
}

func (s *Usecase) clearResendCooldown(ctx context.Context, identityID int64) {
	if err := s.repoCache.ClearResendCooldown(ctx, identityID); err != nil {
		slog.ErrorContext(ctx, "failed to clear resend cooldown", "identity_id", identityID, "error", err)
	}
}
