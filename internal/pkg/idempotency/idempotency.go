// Package idempotency guards operations with a Redis key so that the same
// logical operation is not run twice at the same time.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress is returned by Exec while another caller holds the key.
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	// ErrAlreadyCompleted is returned by Exec when the key finished successfully within its TTL.
	ErrAlreadyCompleted = errors.New("idempotency: operation already completed")
	// ErrAlreadyFailed is returned by Exec when the key failed within its TTL.
	ErrAlreadyFailed = errors.New("idempotency: operation already failed")
	// ErrInvalidState is returned when the stored value is not a known state.
	ErrInvalidState = errors.New("idempotency: invalid state")
)

// State is the stored progress of an operation.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Idempotency is the contract consumed by use cases.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lock time.Duration) (State, error)
	Release(ctx context.Context, key string) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// StateTracker implements Idempotency on Redis.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a StateTracker storing keys under "idempotency:".
func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

// Option tunes Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration   time.Duration
	stateTTL       time.Duration
	releaseOnError bool
}

// WithLockDuration bounds how long an in-progress marker survives a crashed caller.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the completed or failed marker is kept.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// WithReleaseOnError forgets the key when fn fails instead of recording the
// failure, so a later call runs fn again.
func WithReleaseOnError() Option {
	return func(o *execOptions) { o.releaseOnError = true }
}

// Acquire marks key in progress. StateNone means the caller owns it now;
// any other state is what a previous caller left behind.
func (s *StateTracker) Acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	fk := s.prefix + key

	for range 2 {
		ok, err := s.client.SetNX(ctx, fk, string(StateInProgress), lock).Result()
		if err != nil {
			return StateNone, err
		}
		if ok {
			return StateNone, nil
		}

		current, err := s.client.Get(ctx, fk).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET; try once more
			continue
		}
		if err != nil {
			return StateNone, err
		}

		switch st := State(current); st {
		case StateInProgress, StateCompleted, StateFailed:
			return st, nil
		default:
			return StateNone, ErrInvalidState
		}
	}

	return StateNone, ErrInvalidState
}

// Release forgets key so the operation may run again.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *StateTracker) mark(ctx context.Context, key string, st State, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, string(st), ttl).Err()
}

// Exec runs fn once per key: concurrent or repeated calls within the state
// TTL get one of the ErrAlready* errors instead.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		if o.releaseOnError {
			return errors.Join(err, s.Release(context.WithoutCancel(ctx), key))
		}
		return errors.Join(err, s.mark(ctx, key, StateFailed, o.stateTTL))
	}

	return s.mark(ctx, key, StateCompleted, o.stateTTL)
}
