package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name       string
		in         signup
		wantFields []string
	}{
		{
			name: "valid",
			in:   signup{DisplayName: "alice", Email: "a@x.com", Password: "Secret1!"},
		},
		{
			name:       "missing everything",
			in:         signup{},
			wantFields: []string{"displayName", "email", "password"},
		},
		{
			name:       "bad email and short password",
			in:         signup{DisplayName: "alice", Email: "nope", Password: "short"},
			wantFields: []string{"email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Values(), len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, verr, f)
			}
		})
	}
}

func TestV10Validator_PasswordMessage(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(signup{DisplayName: "alice", Email: "a@x.com", Password: "1234567"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password must be 8-72 characters", verr["password"])
}
