package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
)

func (e *testEnv) sessionCtx(t *testing.T, role string) context.Context {
	t.Helper()

	token, err := e.jwt.Generate(jwt.Session{IdentityID: 9, Role: role, Email: "a@x.com", DisplayName: "alice"})
	require.NoError(t, err)
	claims, err := e.jwt.Verify(token)
	require.NoError(t, err)

	return jwt.SetAuth(context.Background(), claims)
}

func TestCheckAuth(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.uc.CheckAuth(env.sessionCtx(t, entity.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, jwt.Session{IdentityID: 9, Role: entity.RoleUser, Email: "a@x.com", DisplayName: "alice"}, out.Session)
}

func TestCheckAuth_Rejects(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no session", func(t *testing.T) {
		_, err := env.uc.CheckAuth(context.Background())
		assert.ErrorIs(t, err, entity.ErrInvalidSession)
		requireCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("role not allowed", func(t *testing.T) {
		_, err := env.uc.CheckAuth(env.sessionCtx(t, "guest"))
		assert.ErrorIs(t, err, entity.ErrInvalidSession)
	})

	t.Run("enforcer failure", func(t *testing.T) {
		env.enforcer.err = errors.New("model broken")
		defer func() { env.enforcer.err = nil }()

		_, err := env.uc.CheckAuth(env.sessionCtx(t, entity.RoleUser))
		requireCode(t, err, goerror.CodeInternal)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.sessionCtx(t, entity.RoleUser)
	env.clock.Advance(15 * time.Minute)

	require.NoError(t, env.uc.Logout(ctx))

	clm := jwt.GetAuth(ctx)
	assert.Equal(t, DefaultSessionTTL-15*time.Minute, env.cache.revoked[clm.ID])

	_, err := env.uc.CheckAuth(ctx)
	assert.ErrorIs(t, err, entity.ErrInvalidSession)
}

func TestLogout_WithoutUsableSession(t *testing.T) {
	env := newTestEnv(t)

	assert.NoError(t, env.uc.Logout(context.Background()))

	ctx := env.sessionCtx(t, entity.RoleUser)
	env.cache.err = errors.New("redis down")
	assert.NoError(t, env.uc.Logout(ctx))

	env.cache.err = nil
	env.clock.Advance(DefaultSessionTTL + time.Second)
	assert.NoError(t, env.uc.Logout(ctx))
	assert.Empty(t, env.cache.revoked)
}
