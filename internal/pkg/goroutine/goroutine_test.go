package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_RunsAndCollectsErrors(t *testing.T) {
	m := NewManager(4)
	boom := errors.New("boom")

	var ran atomic.Int32
	for i := range 3 {
		started := m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			if i == 1 {
				return boom
			}
			return nil
		})
		assert.True(t, started)
	}

	err := m.Wait()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), ran.Load())
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), func(context.Context) error {
		panic("kaboom")
	})

	assert.ErrorIs(t, m.Wait(), ErrPanic)
}

func TestManager_RejectsAfterWaitAndWhenFull(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	assert.True(t, m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

	close(release)
	assert.NoError(t, m.Wait())
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
}

func TestManager_Nil(t *testing.T) {
	var m *Manager
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	assert.NoError(t, m.Wait())
}
