package db

import (
	"context"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
)

// CreateIdentity inserts an unverified identity with its first pending
// code. A taken email yields goerror.ErrConflict and changes nothing.
func (s *DB) CreateIdentity(ctx context.Context, in entity.NewIdentity) (err error) {
	ctx, span := s.startSpan(ctx, "CreateIdentity")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `INSERT INTO identities
		(id, email, display_name, password_hash, is_verified, role, otp_hash, otp_purpose, otp_expires_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8)`,
		in.ID, in.Email, in.DisplayName, in.PasswordHash, in.Role,
		in.Pending.Hash, int16(in.Pending.Context), in.Pending.ExpiresAt,
	)
	return s.mapError(err)
}
