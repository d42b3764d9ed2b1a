package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	IdentityID int64
}

// Login checks the password of a verified identity and sends a login code.
// The session is only issued once that code is verified. Sending the code
// shares the resend window, so repeated logins cannot flood the inbox.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	idn, err := s.repoDB.GetIdentityByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusinessCause(entity.ErrIdentityNotFound, "User doesn't exists! Please register first", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get identity by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !idn.IsVerified {
		slog.WarnContext(ctx, "login attempt on unverified identity", "identity_id", idn.ID)
		return nil, goerror.NewBusinessCause(entity.ErrNotVerified, "Please verify your email with OTP before logging in.", goerror.CodeForbidden)
	}

	if !s.password.Verify(idn.PasswordHash, in.Password) {
		return nil, goerror.NewBusinessCause(entity.ErrBadCredentials, "Incorrect password! Please try again", goerror.CodeUnauthorized)
	}

	release, err := s.acquireResendCooldown(ctx, idn.ID)
	if err != nil {
		return nil, err
	}

	code, pending, err := s.newPendingOTP(entity.VerificationLogin)
	if err != nil {
		release()
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SetPendingOTP(ctx, idn.ID, pending); err != nil {
		release()
		slog.ErrorContext(ctx, "failed to repo set pending otp", "identity_id", idn.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.dispatchOTP(ctx, idn, code, pending)

	return &LoginOutput{IdentityID: idn.ID}, nil
}
