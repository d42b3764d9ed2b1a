package hash

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned by NewPassword for an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")

const (
	// AlgorithmBcrypt selects Bcrypt for password hashing.
	AlgorithmBcrypt = "bcrypt"
	// AlgorithmArgon2id selects Argon2id for password hashing.
	AlgorithmArgon2id = "argon2id"
)

// Hash turns a secret into a stored representation and checks candidates
// against it.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}

// NewPassword returns the slow salted hasher used for credentials.
func NewPassword(algorithm string, bcryptCost int, pepper string) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcrypt(bcryptCost, pepper), nil
	case AlgorithmArgon2id:
		return NewArgon2id(pepper), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}
}
