// Package jwt issues and verifies the session token carried in the
// session cookie.
//
// It includes:
//   - Claims: registered claims plus the session payload (id, role, email, display name).
//   - Symmetric: an HS512 implementation bound to a clock and a token id generator.
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
