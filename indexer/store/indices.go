package store

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Indices reads and writes per-node identifiers over a byte region whose
// element width is fixed when the store is created.
type Indices interface {
	// Get returns the identifier at node position p, zero if never set.
	Get(p int) int
	// Set stores v at node position p. Fails with ErrValueOutOfRange if v does not fit.
	Set(p, v int) error
	// Len returns the number of node positions.
	Len() int
	// Width returns the element width in bytes.
	Width() int
}

// NewIndices wraps buf as an index store for numNodes nodes. The width is 16
// bits when numNodes < 16384, otherwise 32 bits.
func NewIndices(buf []byte, numNodes int) Indices {
	if IndexWidth(numNodes) == 2 {
		return indices16(buf[:numNodes*2])
	}
	return indices32(buf[:numNodes*4])
}

type indices16 []byte

func (s indices16) Get(p int) int {
	return int(binary.LittleEndian.Uint16(s[p*2:]))
}

func (s indices16) Set(p, v int) error {
	if v < 0 || v > math.MaxUint16 {
		return errors.Wrapf(ErrValueOutOfRange, "value %d at position %d exceeds 16-bit index", v, p)
	}
	binary.LittleEndian.PutUint16(s[p*2:], uint16(v))
	return nil
}

func (s indices16) Len() int   { return len(s) / 2 }
func (s indices16) Width() int { return 2 }

type indices32 []byte

func (s indices32) Get(p int) int {
	return int(binary.LittleEndian.Uint32(s[p*4:]))
}

func (s indices32) Set(p, v int) error {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return errors.Wrapf(ErrValueOutOfRange, "value %d at position %d exceeds 32-bit index", v, p)
	}
	binary.LittleEndian.PutUint32(s[p*4:], uint32(v))
	return nil
}

func (s indices32) Len() int   { return len(s) / 4 }
func (s indices32) Width() int { return 4 }
