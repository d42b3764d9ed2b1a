package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 is a keyed, fast, deterministic hash. It suits short-lived
// secrets such as one-time codes where a lookup by value is never needed
// and bcrypt cost would be wasted.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a new hasher with a secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the hex encoded HMAC of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

// Verify compares in constant time. An empty hashed value never matches.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	expected := s.sum(str)
	ok := hmac.Equal([]byte(hashed), expected)
	return ok && hashed != ""
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(str))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
