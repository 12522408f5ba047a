package secure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/secure"
)

func TestNew_ZeroedInitially(t *testing.T) {
	t.Parallel()
	b, err := secure.New(32)
	require.NoError(t, err)
	defer b.Destroy()

	for _, v := range b.Bytes() {
		assert.Equal(t, byte(0), v)
	}
	assert.Equal(t, 32, b.Len())
}

func TestFromSlice_CopiesData(t *testing.T) {
	t.Parallel()
	original := []byte("seed material")

	b, err := secure.FromSlice(original)
	require.NoError(t, err)
	defer b.Destroy()

	assert.Equal(t, original, b.Bytes())
}

func TestDestroy_Zeroes(t *testing.T) {
	t.Parallel()
	b, err := secure.FromSlice([]byte("sensitive"))
	require.NoError(t, err)

	b.Destroy()

	assert.Nil(t, b.Bytes())
	assert.Equal(t, 0, b.Len())
}

func TestDestroy_Idempotent(t *testing.T) {
	t.Parallel()
	b, err := secure.FromSlice([]byte("sensitive"))
	require.NoError(t, err)

	b.Destroy()
	assert.NotPanics(t, func() { b.Destroy() })
}

func TestZero(t *testing.T) {
	t.Parallel()
	data := []byte("secret-data")
	secure.Zero(data)

	for _, v := range data {
		assert.Equal(t, byte(0), v)
	}
}

func TestRandomBytes_Length(t *testing.T) {
	t.Parallel()
	b, err := secure.RandomBytes(24)
	require.NoError(t, err)
	assert.Len(t, b, 24)
}

func TestRandomSecretBytes(t *testing.T) {
	t.Parallel()
	b, err := secure.RandomSecretBytes(16)
	require.NoError(t, err)
	defer b.Destroy()

	assert.Equal(t, 16, b.Len())
}
