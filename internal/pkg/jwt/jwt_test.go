package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/storefront/internal/pkg/clock"
)

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return "jti-" + string(rune('a'+s.n))
}

func newTestJWT(t *testing.T, clk *clock.Manual) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "storefront",
		Audiences: []string{"storefront-web"},
		TTL:       60 * time.Minute,
		Clock:     clk,
		UUID:      &seqID{},
	})
	require.NoError(t, err)
	return j
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	j := newTestJWT(t, clk)

	session := Session{IdentityID: 42, Role: "user", Email: "a@x.com", DisplayName: "alice"}
	token, err := j.Generate(session)
	require.NoError(t, err)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, session, claims.Session())
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, clk.Now().Add(60*time.Minute).Equal(claims.ExpiresAt.Time))
	assert.Equal(t, 60*time.Minute, j.TTL())
}

func TestSymmetric_VerifyExpired(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	j := newTestJWT(t, clk)

	token, err := j.Generate(Session{IdentityID: 1, Role: "user"})
	require.NoError(t, err)

	clk.Advance(61 * time.Minute)

	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_VerifyRejectsForeignSignature(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	j := newTestJWT(t, clk)

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "storefront",
		Audiences: []string{"storefront-web"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      &seqID{},
	})
	require.NoError(t, err)

	token, err := other.Generate(Session{IdentityID: 1})
	require.NoError(t, err)

	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetAuth(ctx))

	ctx = SetAuth(ctx, Claims{IdentityID: 7, Role: "admin"})
	got := GetAuth(ctx)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.IdentityID)
	assert.Equal(t, "admin", got.Role)
}
