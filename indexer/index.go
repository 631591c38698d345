package indexer

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/indexer/store"
)

// Index is a finished, read-only spatial index over a packed buffer.
// All query methods are safe for concurrent use.
type Index struct {
	data        []byte
	boxes       []float64
	ids         store.Indices
	numItems    int
	nodeSize    int
	levelBounds []int
	log         *zap.Logger
	persisted   store.BufferStore // set when loaded from a file, released by Close
	searchPool  *SearchPool       // set when Config.SearchPoolWorkers > 0
}

// Load adopts buf as a finished index, e.g. one produced by another flatbush
// implementation or by Bytes. The buffer is used in place unless it is not
// 8-byte aligned, in which case it is copied. buf must not be modified while
// the Index is in use.
func Load(buf []byte) (*Index, error) {
	return load(buf, nil, nil)
}

func load(buf []byte, s store.BufferStore, log *zap.Logger) (*Index, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !store.HostLittleEndian() {
		return nil, store.ErrUnsupportedHost
	}
	h, err := store.DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	layout, err := store.ComputeLayout(int(h.NumItems), int(h.NodeSize))
	if err != nil {
		return nil, err
	}
	if len(buf) != layout.BufferSize() {
		return nil, errBufferSize(len(buf), layout)
	}
	if !store.Aligned(buf) {
		buf = append(make([]byte, 0, len(buf)), buf...)
	}
	ids := store.IndicesView(buf, layout)
	if err := checkChildOffsets(ids, layout); err != nil {
		return nil, err
	}
	return &Index{
		data:        buf,
		boxes:       store.BoxesView(buf, layout),
		ids:         ids,
		numItems:    layout.NumItems,
		nodeSize:    layout.NodeSize,
		levelBounds: layout.LevelBounds,
		log:         log,
		persisted:   s,
	}, nil
}

// startSearchPool routes Search through a pool of n workers when n > 0.
func (x *Index) startSearchPool(n int) {
	if n > 0 {
		x.searchPool = NewSearchPool(x, n, 64)
	}
}

// NumItems returns the number of indexed boxes.
func (x *Index) NumItems() int { return x.numItems }

// NodeSize returns the branching factor.
func (x *Index) NodeSize() int { return x.nodeSize }

// NumNodes returns the number of leaf and internal nodes.
func (x *Index) NumNodes() int { return len(x.boxes) / 4 }

// LevelBounds returns a copy of the per-level end offsets into the box array.
func (x *Index) LevelBounds() []int {
	return append([]int(nil), x.levelBounds...)
}

// Extent returns the bounds of all items (the root box).
func (x *Index) Extent() Box {
	if x.numItems == 0 {
		return EmptyBox()
	}
	return boxAt(x.boxes, len(x.boxes)-4)
}

// Bytes returns the packed buffer. It is shared with the Index and must not
// be modified.
func (x *Index) Bytes() []byte {
	return x.data
}

// BoxAt returns the box of item id. It scans the leaf level, so it is meant
// for inspection rather than hot paths.
func (x *Index) BoxAt(id int) (Box, bool) {
	for p := 0; p < x.numItems; p++ {
		if x.ids.Get(p) == id {
			return boxAt(x.boxes, p*4), true
		}
	}
	return Box{}, false
}

// checkChildOffsets verifies that every internal node stores the float offset
// of a node in the level directly below it, so traversal always descends.
func checkChildOffsets(ids store.Indices, l store.Layout) error {
	if l.NumItems == 0 {
		return nil
	}
	bounds := l.LevelBounds
	lo := 0
	for level := 1; level < len(bounds); level++ {
		hi := bounds[level-1]
		for pos := hi; pos < bounds[level]; pos += 4 {
			c := ids.Get(pos >> 2)
			if c%4 != 0 || c < lo || c >= hi {
				return errors.Wrapf(store.ErrCorrupt, "node %d: child offset %d outside [%d, %d)", pos>>2, c, lo, hi)
			}
		}
		lo = hi
	}
	return nil
}

func errBufferSize(n int, l store.Layout) error {
	return errors.Wrapf(store.ErrBufferSize, "got %d bytes, header implies %d (%s)", n, l.BufferSize(), l)
}
