package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/storefront/internal/notification/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/clock"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/validator"
)

type fakeMail struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []entity.OTPMail
}

func (f *fakeMail) SendOTP(_ context.Context, in entity.OTPMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, in)
	return nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	done map[string]bool
	busy map[string]bool
	err  error
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{done: map[string]bool{}, busy: map[string]bool{}}
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.done[key]:
		return idempotency.StateCompleted, nil
	case f.busy[key]:
		return idempotency.StateInProgress, nil
	}
	f.busy[key] = true
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.busy, key)
	delete(f.done, key)
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.err != nil {
		return f.err
	}

	state, _ := f.Acquire(ctx, key, 0)
	switch state {
	case idempotency.StateCompleted:
		return idempotency.ErrAlreadyCompleted
	case idempotency.StateInProgress:
		return idempotency.ErrAlreadyInProgress
	}

	err := fn(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.busy, key)
	if err == nil {
		f.done[key] = true
	}
	return err
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestUsecase(t *testing.T, mail *fakeMail) (*Usecase, *fakeIdempotency) {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	idemp := newFakeIdempotency()
	return NewNotification(Dependency{
		Config:      Config{SendAttempts: 3, SendBaseDelay: time.Millisecond, SendMaxDelay: 2 * time.Millisecond},
		RepoMail:    mail,
		Idempotency: idemp,
		Validator:   v,
		Clock:       clock.NewManual(now),
		Instrument:  instrument.NewNoop(),
	}), idemp
}

func validInput() ConsumeOTPIssuedInput {
	return ConsumeOTPIssuedInput{
		IdentityID:  42,
		Email:       "a@x.com",
		DisplayName: "alice",
		Code:        "482913",
		Purpose:     "register",
		ExpiresAt:   now.Add(10 * time.Minute),
	}
}

func TestConsumeOTPIssued(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(in *ConsumeOTPIssuedInput)
		failures int
		wantErr  bool
		wantSent int
		wantCall int
	}{
		{name: "sent", wantSent: 1, wantCall: 1},
		{name: "sent after transient failures", failures: 2, wantSent: 1, wantCall: 3},
		{name: "gives up after all attempts", failures: 10, wantErr: true, wantCall: 3},
		{name: "invalid email dropped", mutate: func(in *ConsumeOTPIssuedInput) { in.Email = "nope" }},
		{name: "unknown purpose dropped", mutate: func(in *ConsumeOTPIssuedInput) { in.Purpose = "reset" }},
		{name: "missing code dropped", mutate: func(in *ConsumeOTPIssuedInput) { in.Code = "" }},
		{name: "expired code dropped", mutate: func(in *ConsumeOTPIssuedInput) { in.ExpiresAt = now }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &fakeMail{failures: tt.failures}
			uc, _ := newTestUsecase(t, mail)

			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			err := uc.ConsumeOTPIssued(context.Background(), in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCall, mail.calls)
			assert.Len(t, mail.sent, tt.wantSent)
		})
	}
}

func TestConsumeOTPIssued_Payload(t *testing.T) {
	mail := &fakeMail{}
	uc, _ := newTestUsecase(t, mail)

	require.NoError(t, uc.ConsumeOTPIssued(context.Background(), validInput()))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, entity.OTPMail{
		IdentityID:  42,
		To:          "a@x.com",
		DisplayName: "alice",
		Code:        "482913",
		Purpose:     "register",
		ExpiresAt:   now.Add(10 * time.Minute),
	}, mail.sent[0])
}

func TestConsumeOTPIssued_ContextCanceled(t *testing.T) {
	mail := &fakeMail{failures: 10}
	uc, _ := newTestUsecase(t, mail)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, uc.ConsumeOTPIssued(ctx, validInput()))
	assert.Empty(t, mail.sent)
}

func TestConsumeOTPIssued_Redelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("sent code is not mailed again", func(t *testing.T) {
		mail := &fakeMail{}
		uc, _ := newTestUsecase(t, mail)

		require.NoError(t, uc.ConsumeOTPIssued(ctx, validInput()))
		require.NoError(t, uc.ConsumeOTPIssued(ctx, validInput()))
		assert.Len(t, mail.sent, 1)
	})

	t.Run("a newer code for the same identity is mailed", func(t *testing.T) {
		mail := &fakeMail{}
		uc, _ := newTestUsecase(t, mail)

		require.NoError(t, uc.ConsumeOTPIssued(ctx, validInput()))
		next := validInput()
		next.Code = "110022"
		next.ExpiresAt = next.ExpiresAt.Add(time.Minute)
		require.NoError(t, uc.ConsumeOTPIssued(ctx, next))
		assert.Len(t, mail.sent, 2)
	})

	t.Run("failed delivery can be retried", func(t *testing.T) {
		mail := &fakeMail{failures: 3}
		uc, idemp := newTestUsecase(t, mail)

		assert.Error(t, uc.ConsumeOTPIssued(ctx, validInput()))
		assert.Empty(t, idemp.busy)

		require.NoError(t, uc.ConsumeOTPIssued(ctx, validInput()))
		assert.Len(t, mail.sent, 1)
	})

	t.Run("delivery in flight elsewhere is skipped", func(t *testing.T) {
		mail := &fakeMail{}
		uc, idemp := newTestUsecase(t, mail)
		idemp.busy[deliveryKey(validInput())] = true

		require.NoError(t, uc.ConsumeOTPIssued(ctx, validInput()))
		assert.Zero(t, mail.calls)
	})

	t.Run("unreachable dedup store still sends", func(t *testing.T) {
		mail := &fakeMail{}
		uc, idemp := newTestUsecase(t, mail)
		idemp.err = errors.New("redis down")

		require.NoError(t, uc.ConsumeOTPIssued(ctx, validInput()))
		assert.Len(t, mail.sent, 1)
	})
}
