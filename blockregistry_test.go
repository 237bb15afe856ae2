package brec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewBlockRegistry()
	sig := pointBlockSig
	reg.Register(sig, 16)

	ssize, ok := reg.SSizeOf(sig)
	assert.True(t, ok)
	assert.Equal(t, uint64(16), ssize)

	_, ok = reg.SSizeOf([4]byte{0xff, 0xff, 0xff, 0xff})
	assert.False(t, ok)
}

func TestBlockRegistry_RegisterOverwrites(t *testing.T) {
	reg := NewBlockRegistry()
	sig := [4]byte{1, 2, 3, 4}
	reg.Register(sig, 10)
	reg.Register(sig, 20)

	ssize, ok := reg.SSizeOf(sig)
	assert.True(t, ok)
	assert.Equal(t, uint64(20), ssize)
}

func TestBlockRegistry_RegisterSig(t *testing.T) {
	reg := NewBlockRegistry()
	sig := NewByteBlock4(pointBlockSig)
	require.NoError(t, reg.RegisterSig(sig, 16))

	ssize, ok := reg.SSizeOf(pointBlockSig)
	assert.True(t, ok)
	assert.Equal(t, uint64(16), ssize)
}

func TestBlockRegistry_RegisterSig_WrongCapacity(t *testing.T) {
	reg := NewBlockRegistry()
	sig := NewByteBlock8([8]byte{1, 2, 3, 4, 5, 6, 7, 8})
	err := reg.RegisterSig(sig, 16)
	assert.ErrorIs(t, err, ErrFailExtractByteBlock)
}
