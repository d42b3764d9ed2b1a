package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/clock"
	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/hash"
	"github.com/shandysiswandi/storefront/internal/pkg/idempotency"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
	"github.com/shandysiswandi/storefront/internal/pkg/uid"
	"github.com/shandysiswandi/storefront/internal/pkg/validator"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeDB struct {
	mu   sync.Mutex
	rows map[int64]*entity.Identity
	err  error
	// createErr is returned by CreateIdentity instead of inserting.
	createErr error
	// setPendingErr is returned by SetPendingOTP instead of writing.
	setPendingErr error
}

func newFakeDB() *fakeDB { return &fakeDB{rows: map[int64]*entity.Identity{}} }

func cloneIdentity(idn *entity.Identity) *entity.Identity {
	out := *idn
	if idn.Pending != nil {
		p := *idn.Pending
		out.Pending = &p
	}
	return &out
}

func (f *fakeDB) GetIdentityByEmail(_ context.Context, email string) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, idn := range f.rows {
		if idn.Email == email {
			return cloneIdentity(idn), nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetIdentityByID(_ context.Context, id int64) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	idn, ok := f.rows[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return cloneIdentity(idn), nil
}

func (f *fakeDB) CreateIdentity(_ context.Context, in entity.NewIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, idn := range f.rows {
		if idn.Email == in.Email {
			return goerror.ErrConflict
		}
	}
	p := in.Pending
	f.rows[in.ID] = &entity.Identity{
		ID:           in.ID,
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Pending:      &p,
	}
	return nil
}

func (f *fakeDB) SetPendingOTP(_ context.Context, id int64, p entity.PendingOTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setPendingErr != nil {
		return f.setPendingErr
	}
	idn, ok := f.rows[id]
	if !ok {
		return goerror.ErrNotFound
	}
	idn.Pending = &p
	return nil
}

func (f *fakeDB) ConsumeOTP(_ context.Context, in entity.ConsumeOTP) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idn, ok := f.rows[in.IdentityID]
	if !ok || idn.Pending == nil || idn.Pending.Hash != in.ExpectedHash {
		return false, nil
	}
	idn.Pending = nil
	if in.MarkVerified {
		idn.IsVerified = true
	}
	return true, nil
}

func (f *fakeDB) get(id int64) *entity.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneIdentity(f.rows[id])
}

type fakeCache struct {
	mu       sync.Mutex
	clock    clock.Clocker
	cooldown map[int64]time.Time
	revoked  map[string]time.Duration
	err      error
}

func (f *fakeCache) StartResendCooldown(_ context.Context, id int64, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.cooldown[id] = f.clock.Now().Add(ttl)
	return nil
}

func (f *fakeCache) AcquireResendCooldown(_ context.Context, id int64, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if until, ok := f.cooldown[id]; ok && f.clock.Now().Before(until) {
		return false, nil
	}
	f.cooldown[id] = f.clock.Now().Add(ttl)
	return true, nil
}

func (f *fakeCache) ClearResendCooldown(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.cooldown, id)
	return nil
}

func (f *fakeCache) RevokeSession(_ context.Context, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeCache) IsSessionRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []OTPIssuedEvent
	err    error
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return f.err
}

func (f *fakeMessaging) last(t *testing.T) OTPIssuedEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.events, "no otp was published")
	return f.events[len(f.events)-1]
}

type fakeIdempotency struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return idempotency.StateNone, f.err
	}
	if f.held[key] {
		return idempotency.StateInProgress, nil
	}
	f.held[key] = true
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	return fn(ctx)
}

// seqOTP hands out 100001, 100002, ... so every issued code is distinct.
type seqOTP struct {
	mu sync.Mutex
	n  int
}

func (g *seqOTP) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%06d", 100000+g.n)
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (g *seqID) Generate() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return 7000000000000000000 + g.n
}

type fakeEnforcer struct {
	allowed map[string]bool
	err     error
}

func (f *fakeEnforcer) Enforce(rvals ...any) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	role, _ := rvals[0].(string)
	return f.allowed[role], nil
}

type testEnv struct {
	uc       *Usecase
	db       *fakeDB
	cache    *fakeCache
	mq       *fakeMessaging
	idemp    *fakeIdempotency
	clock    *clock.Manual
	jwt      *jwt.Symmetric
	enforcer *fakeEnforcer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clk := clock.NewManual(testNow)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "storefront",
		Audiences: []string{"storefront-web"},
		TTL:       DefaultSessionTTL,
		Clock:     clk,
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)

	env := &testEnv{
		db:       newFakeDB(),
		cache:    &fakeCache{clock: clk, cooldown: map[int64]time.Time{}, revoked: map[string]time.Duration{}},
		mq:       &fakeMessaging{},
		idemp:    &fakeIdempotency{held: map[string]bool{}},
		clock:    clk,
		jwt:      tokens,
		enforcer: &fakeEnforcer{allowed: map[string]bool{entity.RoleUser: true}},
	}

	env.uc = New(Dependency{
		RepoDB:        env.db,
		RepoCache:     env.cache,
		RepoMessaging: env.mq,
		Idempotency:   env.idemp,
		Validator:     v,
		Password:      hash.NewBcrypt(4, ""),
		OTPHash:       hash.NewHMACSHA256("otp-secret"),
		OTP:           &seqOTP{},
		UID:           &seqID{},
		Clock:         clk,
		JWT:           tokens,
		Instrument:    instrument.NewNoop(),
		Enforcer:      env.enforcer,
	})
	return env
}

// register signs up and returns the id and the delivered code.
func (e *testEnv) register(t *testing.T, email string) (int64, string) {
	t.Helper()

	out, err := e.uc.Register(context.Background(), RegisterInput{
		DisplayName: "alice",
		Email:       email,
		Password:    "Secret1!",
	})
	require.NoError(t, err)
	return out.IdentityID, e.mq.last(t).Code
}

// verified registers and completes the register verification.
func (e *testEnv) verified(t *testing.T, email string) int64 {
	t.Helper()

	id, code := e.register(t, email)
	_, err := e.uc.VerifyOTP(context.Background(), VerifyOTPInput{IdentityID: id, Code: code, Context: entity.VerificationRegister})
	require.NoError(t, err)
	return id
}

func requireCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	require.True(t, errors.As(err, &gerr), "want *goerror.Error, got %v", err)
	require.Equal(t, code, gerr.Code(), gerr.String())
}
