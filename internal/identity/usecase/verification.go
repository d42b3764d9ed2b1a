package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
)

// verification is the behavior attached to one VerificationContext.
type verification struct {
	// resendGuard rejects a resend for identities in the wrong state.
	resendGuard func(idn *entity.Identity) error
	// eligible reports whether the identity may consume a code at all.
	eligible func(idn *entity.Identity) bool
	// markVerified flips the verification flag while consuming.
	markVerified bool
	// complete runs after the code was consumed.
	complete func(s *Usecase, ctx context.Context, idn *entity.Identity) (*VerifyOTPOutput, error)
}

var verifications = map[entity.VerificationContext]verification{
	entity.VerificationRegister: {
		resendGuard: func(idn *entity.Identity) error {
			if idn.IsVerified {
				return goerror.NewBusinessCause(entity.ErrAlreadyVerified, "User already verified.", goerror.CodeConflict)
			}
			return nil
		},
		eligible:     func(*entity.Identity) bool { return true },
		markVerified: true,
		complete: func(_ *Usecase, _ context.Context, _ *entity.Identity) (*VerifyOTPOutput, error) {
			return &VerifyOTPOutput{Verified: true}, nil
		},
	},
	entity.VerificationLogin: {
		resendGuard: func(idn *entity.Identity) error {
			if !idn.IsVerified {
				return goerror.NewBusinessCause(entity.ErrNotVerified, "User is not verified.", goerror.CodeForbidden)
			}
			return nil
		},
		eligible: func(idn *entity.Identity) bool { return idn.IsVerified },
		complete: (*Usecase).issueSession,
	},
}

func lookupVerification(vc entity.VerificationContext) (verification, error) {
	v, ok := verifications[vc.Ensure()]
	if !ok {
		return verification{}, goerror.NewInvalidInput(nil, "context", "unknown verification context")
	}
	return v, nil
}

func (s *Usecase) issueSession(ctx context.Context, idn *entity.Identity) (*VerifyOTPOutput, error) {
	session := jwt.Session{
		IdentityID:  idn.ID,
		Role:        idn.Role,
		Email:       idn.Email,
		DisplayName: idn.DisplayName,
	}

	token, err := s.jwt.Generate(session)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "identity_id", idn.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOTPOutput{
		Verified:   true,
		Session:    &session,
		Token:      token,
		SessionTTL: s.cfg.SessionTTL,
	}, nil
}
