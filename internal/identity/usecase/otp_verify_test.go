package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
)

func TestVerifyOTP_RegisterScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, code := env.register(t, "a@x.com")

	_, err := env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: "000000", Context: entity.VerificationRegister})
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
	assert.False(t, env.db.get(id).IsVerified)

	out, err := env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationRegister})
	require.NoError(t, err)
	assert.True(t, out.Verified)
	assert.Empty(t, out.Token, "register verification issues no session")

	stored := env.db.get(id)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.Pending)

	_, err = env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationRegister})
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
	requireCode(t, err, goerror.CodeUnauthorized)
}

func TestVerifyOTP_Expiry(t *testing.T) {
	tests := []struct {
		name    string
		advance func(env *testEnv)
		wantErr bool
	}{
		{"just before expiry", func(env *testEnv) { env.clock.Advance(DefaultOTPTTL - 1) }, false},
		{"at expiry", func(env *testEnv) { env.clock.Advance(DefaultOTPTTL) }, true},
		{"after expiry", func(env *testEnv) { env.clock.Advance(DefaultOTPTTL + 1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			id, code := env.register(t, "a@x.com")
			tt.advance(env)

			_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationRegister})
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
				assert.False(t, env.db.get(id).IsVerified)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVerifyOTP_ContextMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, registerCode := env.register(t, "a@x.com")

	_, err := env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: registerCode, Context: entity.VerificationLogin})
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
	assert.NotNil(t, env.db.get(id).Pending, "a rejected code stays pending")

	_, err = env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: registerCode, Context: entity.VerificationRegister})
	require.NoError(t, err)

	env.clock.Advance(DefaultResendCooldown)
	_, err = env.uc.Login(ctx, LoginInput{Email: "a@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	loginCode := env.mq.last(t).Code

	_, err = env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: loginCode, Context: entity.VerificationRegister})
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
}

func TestVerifyOTP_LoginIssuesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.verified(t, "a@x.com")
	_, err := env.uc.Login(ctx, LoginInput{Email: "a@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	code := env.mq.last(t).Code

	out, err := env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationLogin})
	require.NoError(t, err)
	require.NotNil(t, out.Session)
	assert.Equal(t, id, out.Session.IdentityID)
	assert.Equal(t, "a@x.com", out.Session.Email)
	assert.Equal(t, entity.RoleUser, out.Session.Role)
	assert.Equal(t, DefaultSessionTTL, out.SessionTTL)

	claims, err := env.jwt.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, *out.Session, claims.Session())

	_, err = env.uc.VerifyOTP(ctx, VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationLogin})
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
}

func TestVerifyOTP_LoginRejectsUnverified(t *testing.T) {
	env := newTestEnv(t)
	id, code := env.register(t, "a@x.com")

	// a login-context code on an unverified identity can only come from a
	// tampered store; it must still not mint a session
	hashed, err := env.uc.otpHash.Hash(code)
	require.NoError(t, err)
	require.NoError(t, env.db.SetPendingOTP(context.Background(), id, entity.PendingOTP{
		Hash:      string(hashed),
		Context:   entity.VerificationLogin,
		ExpiresAt: testNow.Add(DefaultOTPTTL),
	}))

	_, err = env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationLogin})
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
}

func TestVerifyOTP_ConcurrentVerifySucceedsOnce(t *testing.T) {
	env := newTestEnv(t)
	id, code := env.register(t, "a@x.com")

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range attempts {
		wg.Go(func() {
			_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationRegister})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
		})
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestVerifyOTP_Failures(t *testing.T) {
	env := newTestEnv(t)
	id, code := env.register(t, "a@x.com")

	t.Run("unknown identity", func(t *testing.T) {
		_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: 42, Code: code, Context: entity.VerificationRegister})
		assert.ErrorIs(t, err, entity.ErrIdentityNotFound)
		requireCode(t, err, goerror.CodeNotFound)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Context: entity.VerificationRegister})
		requireCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("unknown context", func(t *testing.T) {
		_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Code: code})
		requireCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("store down", func(t *testing.T) {
		env.db.err = errors.New("db down")
		defer func() { env.db.err = nil }()

		_, err := env.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationRegister})
		requireCode(t, err, goerror.CodeInternal)
	})
}
