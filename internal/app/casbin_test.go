package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnforcer(t *testing.T) {
	t.Run("defaults allow users to read sessions", func(t *testing.T) {
		e, err := newEnforcer(nil)
		require.NoError(t, err)

		ok, err := e.Enforce("user", "session", "read")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = e.Enforce("guest", "session", "read")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("roles inherit through grouping", func(t *testing.T) {
		e, err := newEnforcer([]string{"p:user:session:read", "p:admin:*:*", "g:staff:admin"})
		require.NoError(t, err)

		ok, err := e.Enforce("staff", "orders", "delete")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = e.Enforce("user", "session", "write")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed line", func(t *testing.T) {
		_, err := newEnforcer([]string{"user:session:read"})
		assert.ErrorIs(t, err, errInvalidPolicy)
	})
}
