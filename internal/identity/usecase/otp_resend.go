package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
)

type ResendOTPInput struct {
	IdentityID int64                      `json:"identityId" validate:"required,gt=0"`
	Context    entity.VerificationContext `json:"-"`
}

// ResendOTP replaces the pending code with a fresh one, at most once per
// cooldown window. The previous code stops working immediately. A failed
// attempt does not count against the window.
func (s *Usecase) ResendOTP(ctx context.Context, in ResendOTPInput) error {
	ctx, span := s.startSpan(ctx, "ResendOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	flow, err := lookupVerification(in.Context)
	if err != nil {
		return err
	}

	idn, err := s.repoDB.GetIdentityByID(ctx, in.IdentityID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusinessCause(entity.ErrIdentityNotFound, msgIdentityNotFound, goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get identity by id", "identity_id", in.IdentityID, "error", err)
		return goerror.NewServer(err)
	}

	if err := flow.resendGuard(idn); err != nil {
		return err
	}

	release, err := s.acquireResendCooldown(ctx, idn.ID)
	if err != nil {
		return err
	}

	code, pending, err := s.newPendingOTP(in.Context)
	if err != nil {
		release()
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.SetPendingOTP(ctx, idn.ID, pending); err != nil {
		release()
		slog.ErrorContext(ctx, "failed to repo set pending otp", "identity_id", idn.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.dispatchOTP(ctx, idn, code, pending)

	return nil
}
