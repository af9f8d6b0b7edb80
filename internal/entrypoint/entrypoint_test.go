package entrypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFSecretFrom(t *testing.T) {
	t.Run("hex secret is decoded", func(t *testing.T) {
		secret, generated, err := csrfSecretFrom("00ff10")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, secret)
	})

	t.Run("non-hex secret is used as is", func(t *testing.T) {
		secret, generated, err := csrfSecretFrom("not hex at all")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte("not hex at all"), secret)
	})

	t.Run("empty secret is generated", func(t *testing.T) {
		a, generated, err := csrfSecretFrom("")
		require.NoError(t, err)
		assert.True(t, generated)
		assert.Len(t, a, 32)

		b, _, err := csrfSecretFrom("")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}
