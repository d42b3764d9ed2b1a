package entity

import "errors"

var (
	ErrDuplicateIdentity    = errors.New("identity: duplicate identity")
	ErrRegistrationBusy     = errors.New("identity: registration already in progress")
	ErrIdentityNotFound     = errors.New("identity: identity not found")
	ErrNotVerified          = errors.New("identity: identity not verified")
	ErrAlreadyVerified      = errors.New("identity: identity already verified")
	ErrBadCredentials       = errors.New("identity: bad credentials")
	ErrInvalidOrExpiredCode = errors.New("identity: invalid or expired code")
	ErrInvalidSession       = errors.New("identity: invalid session")
	ErrResendTooSoon        = errors.New("identity: resend requested too soon")
)
