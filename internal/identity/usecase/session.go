package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
)

const msgInvalidSession = "Unauthorised user!"

type CheckAuthOutput struct {
	Session jwt.Session
}

// CheckAuth returns the session of the request when its token is still
// live and its role may read sessions.
func (s *Usecase) CheckAuth(ctx context.Context) (*CheckAuthOutput, error) {
	ctx, span := s.startSpan(ctx, "CheckAuth")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, invalidSession()
	}

	if clm.ID != "" {
		revoked, err := s.repoCache.IsSessionRevoked(ctx, clm.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to check session revocation", "identity_id", clm.IdentityID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if revoked {
			return nil, invalidSession()
		}
	}

	ok, err := s.enforcer.Enforce(clm.Role, "session", "read")
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "identity_id", clm.IdentityID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "role not allowed to read session", "identity_id", clm.IdentityID, "role", clm.Role)
		return nil, invalidSession()
	}

	return &CheckAuthOutput{Session: clm.Session()}, nil
}

// Logout revokes the token of the request until it would have expired.
// It never fails for a missing or unusable session; the caller clears the
// cookie either way.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.ID == "" || clm.ExpiresAt == nil {
		return nil
	}

	ttl := clm.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}

	if err := s.repoCache.RevokeSession(ctx, clm.ID, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to revoke session", "identity_id", clm.IdentityID, "error", err)
	}
	return nil
}

func invalidSession() error {
	return goerror.NewBusinessCause(entity.ErrInvalidSession, msgInvalidSession, goerror.CodeUnauthorized)
}
