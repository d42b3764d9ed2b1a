// Package hash provides helpers for hashing and verifying secrets.
//
// Passwords go through a slow salted function (bcrypt or argon2id, see
// NewPassword). One-time codes go through HMACSHA256 so the database never
// holds a usable code.
package hash
