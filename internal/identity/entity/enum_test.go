package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationContext(t *testing.T) {
	tests := []struct {
		in    VerificationContext
		str   string
		known bool
	}{
		{VerificationRegister, "register", true},
		{VerificationLogin, "login", true},
		{VerificationUnknown, "unknown", false},
		{VerificationContext(9), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.in.String())
			assert.Equal(t, tt.known, tt.in.IsKnown())
			if !tt.known {
				assert.Equal(t, VerificationUnknown, tt.in.Ensure())
			}
		})
	}
}
