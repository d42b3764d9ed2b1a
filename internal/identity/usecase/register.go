package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
)

const msgDuplicateIdentity = "User Already exists with the same email! Please try again"

type RegisterInput struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
}

type RegisterOutput struct {
	IdentityID int64
}

// Register creates an unverified identity holding a fresh register code and
// sends the code out.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	release, err := s.lockRegistration(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.repoDB.GetIdentityByEmail(ctx, in.Email)
	if err == nil {
		return nil, goerror.NewBusinessCause(entity.ErrDuplicateIdentity, msgDuplicateIdentity, goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get identity by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	passwordHash, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	code, pending, err := s.newPendingOTP(entity.VerificationRegister)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	idn := &entity.Identity{
		ID:          s.uid.Generate(),
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Role:        entity.RoleUser,
	}

	err = s.repoDB.CreateIdentity(ctx, entity.NewIdentity{
		ID:           idn.ID,
		Email:        idn.Email,
		DisplayName:  idn.DisplayName,
		PasswordHash: string(passwordHash),
		Role:         idn.Role,
		Pending:      pending,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusinessCause(entity.ErrDuplicateIdentity, msgDuplicateIdentity, goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create identity", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.dispatchOTP(ctx, idn, code, pending)
	s.startResendCooldown(ctx, idn.ID)

	return &RegisterOutput{IdentityID: idn.ID}, nil
}

// lockRegistration serializes registrations of one email. The unique index
// stays the final guard, so an unreachable lock store is only logged.
func (s *Usecase) lockRegistration(ctx context.Context, email string) (func(), error) {
	key := "identity:register:" + email

	state, err := s.idemp.Acquire(ctx, key, s.cfg.RegisterLockTTL)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire registration lock", "email", email, "error", err)
		return func() {}, nil
	}
	if state != idempotency.StateNone {
		// the other attempt may still fail, so the email is not known to be taken
		return nil, goerror.NewBusinessCause(entity.ErrRegistrationBusy, "Registration is already in progress. Please try again shortly.", goerror.CodeTooManyRequest)
	}

	return func() {
		if err := s.idemp.Release(context.WithoutCancel(ctx), key); err != nil {
			slog.WarnContext(ctx, "failed to release registration lock", "email", email, "error", err)
		}
	}, nil
}
