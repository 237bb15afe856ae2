package brec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidByteBlockCapacity(t *testing.T) {
	for _, n := range []int{4, 8, 16, 32, 64, 128} {
		assert.True(t, IsValidByteBlockCapacity(n), "capacity %d should be valid", n)
	}
	for _, n := range []int{0, 1, 5, 17, 200} {
		assert.False(t, IsValidByteBlockCapacity(n), "capacity %d should be invalid", n)
	}
}

func TestNewByteBlockConstructors(t *testing.T) {
	b4 := NewByteBlock4([4]byte{1, 2, 3, 4})
	assert.Equal(t, 4, b4.Len())
	assert.Equal(t, []byte{1, 2, 3, 4}, b4.Bytes())

	b8 := NewByteBlock8([8]byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, 8, b8.Len())
}

func TestTryNewByteBlock_ValidAndInvalid(t *testing.T) {
	bb, err := TryNewByteBlock(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, 16, bb.Len())

	_, err = TryNewByteBlock(make([]byte, 7))
	var capErr *InvalidCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 7, capErr.Got)
}

func TestByteBlock_Equal(t *testing.T) {
	a := NewByteBlock4([4]byte{1, 2, 3, 4})
	b := NewByteBlock4([4]byte{1, 2, 3, 4})
	c := NewByteBlock4([4]byte{1, 2, 3, 5})
	d := NewByteBlock8([8]byte{1, 2, 3, 4, 0, 0, 0, 0})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestTryNewByteBlock_CopiesInput(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	bb, err := TryNewByteBlock(src)
	require.NoError(t, err)
	src[0] = 0xff
	assert.Equal(t, byte(1), bb.Bytes()[0])
}

func TestByteBlock_As4(t *testing.T) {
	bb := NewByteBlock4([4]byte{9, 8, 7, 6})
	arr, err := bb.As4()
	require.NoError(t, err)
	assert.Equal(t, [4]byte{9, 8, 7, 6}, arr)
}

func TestByteBlock_As4_WrongCapacity(t *testing.T) {
	bb := NewByteBlock8([8]byte{1, 2, 3, 4, 5, 6, 7, 8})
	_, err := bb.As4()
	assert.ErrorIs(t, err, ErrFailExtractByteBlock)
}
