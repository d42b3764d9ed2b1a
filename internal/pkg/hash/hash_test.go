package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPassword(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		wantType  any
		wantErr   error
	}{
		{name: "default is bcrypt", algorithm: "", wantType: &Bcrypt{}},
		{name: "bcrypt", algorithm: "BCRYPT", wantType: &Bcrypt{}},
		{name: "argon2id", algorithm: "argon2id", wantType: &Argon2id{}},
		{name: "unknown", algorithm: "md5", wantErr: ErrUnknownAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewPassword(tt.algorithm, 4, "pepper")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, h)
		})
	}
}

func TestPasswordHashers(t *testing.T) {
	hashers := map[string]Hash{
		"bcrypt":   NewBcrypt(4, "pepper"),
		"argon2id": NewArgon2id("pepper"),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hashed, err := h.Hash("Secret1!")
			require.NoError(t, err)
			assert.NotEqual(t, "Secret1!", string(hashed))

			assert.True(t, h.Verify(string(hashed), "Secret1!"))
			assert.False(t, h.Verify(string(hashed), "secret1!"))
			assert.False(t, h.Verify("", "Secret1!"))

			again, err := h.Hash("Secret1!")
			require.NoError(t, err)
			assert.NotEqual(t, string(hashed), string(again), "salt must differ per hash")
		})
	}
}

func TestBcrypt_PepperMatters(t *testing.T) {
	hashed, err := NewBcrypt(4, "one").Hash("Secret1!")
	require.NoError(t, err)

	assert.False(t, NewBcrypt(4, "two").Verify(string(hashed), "Secret1!"))
}

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("secret")

	a, err := h.Hash("123456")
	require.NoError(t, err)
	b, err := h.Hash("123456")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.True(t, h.Verify(string(a), "123456"))
	assert.False(t, h.Verify(string(a), "123457"))
	assert.False(t, h.Verify("", ""))
	assert.False(t, NewHMACSHA256("other").Verify(string(a), "123456"))
}
