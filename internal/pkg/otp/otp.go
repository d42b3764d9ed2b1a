package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength is the number of digits used when a non-positive length is given.
const DefaultLength = 6

// maxLength keeps 10^length inside what a one-time code can reasonably be.
const maxLength = 18

// Generator produces one-time codes.
type Generator interface {
	Generate() string
}

// Numeric draws codes uniformly from [0, 10^length) and zero pads them, so
// "004211" is as likely as "934211".
type Numeric struct {
	length int
	limit  *big.Int
	format string
}

// NewNumeric returns a Numeric generator for codes of the given length.
func NewNumeric(length int) *Numeric {
	if length <= 0 || length > maxLength {
		length = DefaultLength
	}

	return &Numeric{
		length: length,
		limit:  new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
		format: fmt.Sprintf("%%0%dd", length),
	}
}

// Length returns the number of digits of every generated code.
func (n *Numeric) Length() int { return n.length }

// Generate returns a fresh code.
func (n *Numeric) Generate() string {
	v, err := rand.Int(rand.Reader, n.limit)
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms.
		panic(fmt.Sprintf("otp: read random: %v", err))
	}
	return fmt.Sprintf(n.format, v.Int64())
}
