package entity

import "time"

// RoleUser is the role given to every registered identity.
const RoleUser string = "user"

// Identity is a stored account together with its pending one-time code.
type Identity struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	IsVerified   bool
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Pending is nil when no code is outstanding.
	Pending *PendingOTP
}

// PendingOTP is the outstanding code of an identity. Hash, Context and
// ExpiresAt are always set or cleared together.
type PendingOTP struct {
	Hash      string
	Context   VerificationContext
	ExpiresAt time.Time
}

// NewIdentity is the row created by a registration.
type NewIdentity struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	Pending      PendingOTP
}

// ConsumeOTP describes a compare-and-swap consumption of a pending code.
// It succeeds only while the stored hash still equals ExpectedHash.
type ConsumeOTP struct {
	IdentityID   int64
	ExpectedHash string
	// MarkVerified also flips is_verified to true.
	MarkVerified bool
}
