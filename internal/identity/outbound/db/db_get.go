package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
)

const selectIdentity = `SELECT id, email, display_name, password_hash, is_verified, role,
	otp_hash, otp_purpose, otp_expires_at, created_at, updated_at
FROM identities `

func (s *DB) GetIdentityByEmail(ctx context.Context, email string) (_ *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "GetIdentityByEmail")
	defer func() { s.endSpan(span, err) }()

	idn, err := scanIdentity(s.conn.QueryRow(ctx, selectIdentity+`WHERE email = $1`, email))
	return idn, s.mapError(err)
}

func (s *DB) GetIdentityByID(ctx context.Context, id int64) (_ *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "GetIdentityByID")
	defer func() { s.endSpan(span, err) }()

	idn, err := scanIdentity(s.conn.QueryRow(ctx, selectIdentity+`WHERE id = $1`, id))
	return idn, s.mapError(err)
}

func scanIdentity(row pgx.Row) (*entity.Identity, error) {
	var (
		idn       entity.Identity
		otpHash   pgtype.Text
		otpCtx    pgtype.Int2
		otpExpiry pgtype.Timestamptz
	)

	if err := row.Scan(
		&idn.ID, &idn.Email, &idn.DisplayName, &idn.PasswordHash, &idn.IsVerified, &idn.Role,
		&otpHash, &otpCtx, &otpExpiry, &idn.CreatedAt, &idn.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if otpHash.Valid && otpCtx.Valid && otpExpiry.Valid {
		idn.Pending = &entity.PendingOTP{
			Hash:      otpHash.String,
			Context:   entity.VerificationContext(otpCtx.Int16).Ensure(),
			ExpiresAt: otpExpiry.Time,
		}
	}

	return &idn, nil
}
