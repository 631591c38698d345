package store

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeader_ReferenceBytes(t *testing.T) {
	h := NewHeader(16, 1000)
	b, err := EncodeHeader(&h)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb, 0x38, 0x10, 0x00, 0xe8, 0x03, 0x00, 0x00}, b)
}

func TestDecodeHeader(t *testing.T) {
	h := NewHeader(4, 70000)
	b, err := EncodeHeader(&h)
	require.NoError(t, err)

	got, err := DecodeHeader(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(4), got.NodeSize)
	assert.Equal(t, uint32(70000), got.NumItems)
	assert.Equal(t, FormatVersion, got.Version())
	assert.Equal(t, ArrayTypeFloat64, got.ArrayType())
}

func TestDecodeHeader_Errors(t *testing.T) {
	valid := []byte{0xfb, 0x38, 0x10, 0x00, 0x01, 0x00, 0x00, 0x00}
	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantErr error
	}{
		{"short", func(b []byte) []byte { return b[:5] }, ErrBufferSize},
		{"magic", func(b []byte) []byte { b[0] = 0xfa; return b }, ErrInvalidMagic},
		{"version", func(b []byte) []byte { b[1] = 0x28; return b }, ErrUnsupportedVersion},
		{"array type", func(b []byte) []byte { b[1] = 0x37; return b }, ErrUnsupportedArrayType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := append([]byte(nil), valid...)
			_, err := DecodeHeader(tt.mutate(b))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCompareHeaders(t *testing.T) {
	a := []byte{0xfb, 0x38, 0x10, 0x00, 0xe8, 0x03, 0x00, 0x00, 1, 2}
	b := []byte{0xfb, 0x38, 0x10, 0x00, 0xe8, 0x03, 0x00, 0x00, 9}
	assert.NoError(t, CompareHeaders(a, b))

	b[4] = 0xe9
	assert.True(t, errors.Is(CompareHeaders(a, b), ErrHeaderMismatch))
	assert.True(t, errors.Is(CompareHeaders(a, b[:3]), ErrBufferSize))
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		numItems, nodeSize int
		numNodes           int
		levelBounds        []int
	}{
		{0, 16, 1, []int{0, 4}},
		{1, 16, 2, []int{4, 8}},
		{3, 16, 4, []int{12, 16}},
		{17, 16, 20, []int{68, 76, 80}},
		{100, 4, 135, []int{400, 500, 528, 536, 540}},
		{1000, 16, 1068, []int{4000, 4252, 4268, 4272}},
	}
	for _, tt := range tests {
		l, err := ComputeLayout(tt.numItems, tt.nodeSize)
		require.NoError(t, err)
		assert.Equal(t, tt.numNodes, l.NumNodes, "items=%d nodeSize=%d", tt.numItems, tt.nodeSize)
		assert.Equal(t, tt.levelBounds, l.LevelBounds, "items=%d nodeSize=%d", tt.numItems, tt.nodeSize)
		assert.Equal(t, tt.numNodes*32, l.BoxesByteSize)
		assert.Equal(t, HeaderSize+tt.numNodes*32+tt.numNodes*2, l.BufferSize())
	}
}

func TestComputeLayout_Pure(t *testing.T) {
	a, err := ComputeLayout(12345, 9)
	require.NoError(t, err)
	b, err := ComputeLayout(12345, 9)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Mutating one result must not leak into another.
	a.LevelBounds[0] = -1
	c, err := ComputeLayout(12345, 9)
	require.NoError(t, err)
	assert.Equal(t, b, c)
}

func TestComputeLayout_IndexWidthBoundary(t *testing.T) {
	below, err := ComputeLayout(15358, 16)
	require.NoError(t, err)
	assert.Equal(t, 16383, below.NumNodes)
	assert.Equal(t, 2, below.IndexWidth)

	above, err := ComputeLayout(15359, 16)
	require.NoError(t, err)
	assert.Equal(t, 16384, above.NumNodes)
	assert.Equal(t, 4, above.IndexWidth)
	assert.Equal(t, 16384*4, above.IndicesByteSize)
}

func TestComputeLayout_InvalidConfiguration(t *testing.T) {
	for _, nodeSize := range []int{-1, 0, 1, 65536} {
		_, err := ComputeLayout(10, nodeSize)
		assert.True(t, errors.Is(err, ErrInvalidNodeSize), "nodeSize=%d: %v", nodeSize, err)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	}
	_, err := ComputeLayout(-1, 16)
	assert.True(t, errors.Is(err, ErrInvalidItemCount))
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = ComputeLayout(2, MaxNodeSize)
	assert.NoError(t, err)
}

func TestBoxesView(t *testing.T) {
	l, err := ComputeLayout(3, 16)
	require.NoError(t, err)
	buf := make([]byte, l.BufferSize())
	require.True(t, Aligned(buf))

	boxes := BoxesView(buf, l)
	require.Len(t, boxes, l.NumNodes*4)
	boxes[0] = 1.5
	boxes[len(boxes)-1] = -2

	// 1.5 little-endian
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf8, 0x3f}, buf[HeaderSize:HeaderSize+8])
	assert.True(t, HostLittleEndian())
}
