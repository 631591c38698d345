package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// HeaderSize is the fixed header size.
	HeaderSize = 8

	// Magic is the first byte of every index buffer.
	Magic byte = 0xfb

	// FormatVersion is the flatbush format version stored in the high nibble of byte 1.
	FormatVersion uint8 = 3

	// ArrayTypeFloat64 is the box element type tag (Float64Array) stored in the low nibble of byte 1.
	ArrayTypeFloat64 uint8 = 8

	// DefaultNodeSize is the branching factor used when none is configured.
	DefaultNodeSize = 16
	MinNodeSize     = 2
	MaxNodeSize     = math.MaxUint16

	// MaxItems is the largest item count the u32 header field can hold.
	MaxItems = math.MaxUint32

	// wideIndexThreshold: buffers with at least this many nodes use 32-bit indices.
	wideIndexThreshold = 16384
)

// Header holds the persisted index metadata.
type Header struct {
	Magic       uint8
	VersionType uint8
	NodeSize    uint16
	NumItems    uint32
}

// NewHeader returns a header for the current format version.
func NewHeader(nodeSize, numItems int) Header {
	return Header{
		Magic:       Magic,
		VersionType: FormatVersion<<4 | ArrayTypeFloat64,
		NodeSize:    uint16(nodeSize),
		NumItems:    uint32(numItems),
	}
}

// Version returns the format version nibble.
func (h Header) Version() uint8 { return h.VersionType >> 4 }

// ArrayType returns the box element type nibble.
func (h Header) ArrayType() uint8 { return h.VersionType & 0x0f }

// EncodeHeader writes the header to an 8-byte slice.
func EncodeHeader(h *Header) ([]byte, error) {
	if h == nil {
		return nil, errors.New("header is nil")
	}
	h.Magic = Magic
	h.VersionType = FormatVersion<<4 | ArrayTypeFloat64
	var w bytes.Buffer
	w.Grow(HeaderSize)
	if err := binary.Write(&w, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeHeader reads the header from src. Returns error if magic, version or
// array type are not supported.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, errors.Wrapf(ErrBufferSize, "header too short: %d bytes", len(src))
	}
	var h Header
	if err := binary.Read(bytes.NewReader(src[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		return nil, errors.Wrapf(ErrInvalidMagic, "got 0x%02x", h.Magic)
	}
	if h.Version() != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "got v%d, expected v%d", h.Version(), FormatVersion)
	}
	if h.ArrayType() != ArrayTypeFloat64 {
		return nil, errors.Wrapf(ErrUnsupportedArrayType, "got type %d", h.ArrayType())
	}
	return &h, nil
}

// CompareHeaders checks that two buffers carry byte-identical headers.
func CompareHeaders(a, b []byte) error {
	if len(a) < HeaderSize || len(b) < HeaderSize {
		return errors.Wrapf(ErrBufferSize, "header too short: %d and %d bytes", len(a), len(b))
	}
	if !bytes.Equal(a[:HeaderSize], b[:HeaderSize]) {
		return errors.Wrapf(ErrHeaderMismatch, "% x != % x", a[:HeaderSize], b[:HeaderSize])
	}
	return nil
}

// Layout is the byte geometry of a buffer for a given item count and node size.
// LevelBounds are float offsets into the box array: each entry is the end of
// one tree level, the last one equals 4*NumNodes.
type Layout struct {
	NumItems        int
	NodeSize        int
	NumNodes        int
	LevelBounds     []int
	IndexWidth      int
	BoxesByteSize   int
	IndicesByteSize int
}

// ComputeLayout derives the layout for numItems boxes with the given branching factor.
// An empty index still has a single (empty) root node.
func ComputeLayout(numItems, nodeSize int) (Layout, error) {
	if nodeSize < MinNodeSize || nodeSize > MaxNodeSize {
		return Layout{}, errors.Wrapf(ErrInvalidNodeSize, "got %d, want [%d, %d]", nodeSize, MinNodeSize, MaxNodeSize)
	}
	if numItems < 0 || uint64(numItems) > MaxItems {
		return Layout{}, errors.Wrapf(ErrInvalidItemCount, "got %d", numItems)
	}

	n := numItems
	numNodes := n
	levelBounds := []int{n * 4}
	for {
		n = (n + nodeSize - 1) / nodeSize
		if n == 0 {
			n = 1
		}
		numNodes += n
		levelBounds = append(levelBounds, numNodes*4)
		if n == 1 {
			break
		}
	}

	width := IndexWidth(numNodes)
	return Layout{
		NumItems:        numItems,
		NodeSize:        nodeSize,
		NumNodes:        numNodes,
		LevelBounds:     levelBounds,
		IndexWidth:      width,
		BoxesByteSize:   numNodes * 4 * 8,
		IndicesByteSize: numNodes * width,
	}, nil
}

// IndexWidth returns the per-node index width in bytes (2 or 4).
func IndexWidth(numNodes int) int {
	if numNodes < wideIndexThreshold {
		return 2
	}
	return 4
}

// BufferSize is the total byte length of a buffer with this layout.
func (l Layout) BufferSize() int {
	return HeaderSize + l.BoxesByteSize + l.IndicesByteSize
}

// IndicesOffset is the byte offset of the index array.
func (l Layout) IndicesOffset() int {
	return HeaderSize + l.BoxesByteSize
}

func (l Layout) String() string {
	return fmt.Sprintf("items=%d nodeSize=%d nodes=%d levels=%d indexWidth=%d bytes=%d",
		l.NumItems, l.NodeSize, l.NumNodes, len(l.LevelBounds)-1, l.IndexWidth, l.BufferSize())
}

// BoxesView returns a []float64 view of the box array in buf.
// buf must be at least l.BufferSize() bytes and 8-byte aligned at the box array.
// The slice aliases buf.
func BoxesView(buf []byte, l Layout) []float64 {
	if l.NumNodes == 0 {
		return nil
	}
	ptr := unsafe.Pointer(&buf[HeaderSize])
	return unsafe.Slice((*float64)(ptr), l.NumNodes*4)
}

// IndicesView returns the index store over the index array in buf.
func IndicesView(buf []byte, l Layout) Indices {
	off := l.IndicesOffset()
	return NewIndices(buf[off:off+l.IndicesByteSize], l.NumNodes)
}

// Aligned reports whether the box array in buf can be viewed as []float64.
func Aligned(buf []byte) bool {
	if len(buf) <= HeaderSize {
		return true
	}
	return uintptr(unsafe.Pointer(&buf[HeaderSize]))%unsafe.Alignof(float64(0)) == 0
}

// HostLittleEndian reports whether native float64 views match the little-endian format.
func HostLittleEndian() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}
