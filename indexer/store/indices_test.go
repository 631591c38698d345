package store

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndices_Narrow(t *testing.T) {
	const numNodes = 16383
	buf := make([]byte, numNodes*2)
	s := NewIndices(buf, numNodes)
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, numNodes, s.Len())

	assert.Equal(t, 0, s.Get(10), "unset position reads zero")
	for p := 0; p < numNodes; p++ {
		require.NoError(t, s.Set(p, (p*4)%math.MaxUint16))
	}
	for p := 0; p < numNodes; p++ {
		require.Equal(t, (p*4)%math.MaxUint16, s.Get(p))
	}

	require.NoError(t, s.Set(1, math.MaxUint16))
	assert.Equal(t, math.MaxUint16, s.Get(1))
	assert.Equal(t, []byte{0xff, 0xff}, buf[2:4])

	err := s.Set(1, math.MaxUint16+1)
	assert.True(t, errors.Is(err, ErrValueOutOfRange))
	assert.True(t, errors.Is(err, ErrEncodingOverflow))
	assert.Equal(t, math.MaxUint16, s.Get(1), "failed set leaves value untouched")
	assert.True(t, errors.Is(s.Set(2, -1), ErrValueOutOfRange))
}

func TestIndices_Wide(t *testing.T) {
	const numNodes = 16384
	buf := make([]byte, numNodes*4)
	s := NewIndices(buf, numNodes)
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, numNodes, s.Len())

	for p := 0; p < numNodes; p++ {
		require.NoError(t, s.Set(p, p*4))
	}
	for p := 0; p < numNodes; p++ {
		require.Equal(t, p*4, s.Get(p))
	}
	require.NoError(t, s.Set(0, 70000))
	assert.Equal(t, []byte{0x70, 0x11, 0x01, 0x00}, buf[:4])
	assert.True(t, errors.Is(s.Set(0, -5), ErrValueOutOfRange))
}
