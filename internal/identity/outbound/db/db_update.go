package db

import (
	"context"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
)

// SetPendingOTP replaces whatever code is pending.
func (s *DB) SetPendingOTP(ctx context.Context, id int64, p entity.PendingOTP) (err error) {
	ctx, span := s.startSpan(ctx, "SetPendingOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE identities
		SET otp_hash = $2, otp_purpose = $3, otp_expires_at = $4, updated_at = NOW()
		WHERE id = $1`,
		id, p.Hash, int16(p.Context), p.ExpiresAt,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

// ConsumeOTP clears the pending code only while it still equals
// in.ExpectedHash, and reports whether this call did it.
func (s *DB) ConsumeOTP(ctx context.Context, in entity.ConsumeOTP) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE identities
		SET otp_hash = NULL, otp_purpose = NULL, otp_expires_at = NULL,
			is_verified = is_verified OR $3, updated_at = NOW()
		WHERE id = $1 AND otp_hash = $2`,
		in.IdentityID, in.ExpectedHash, in.MarkVerified,
	)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
