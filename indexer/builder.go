package indexer

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/indexer/store"
)

// Builder stages boxes into a packed buffer. It is single use: Finish hands the
// buffer to the returned Index and the Builder cannot be used afterwards.
type Builder struct {
	cfg    *Config
	log    *zap.Logger
	layout store.Layout

	data  []byte
	boxes []float64
	ids   store.Indices

	pos    int // next free float offset in boxes
	added  int
	extent Box
}

// NewBuilder creates a builder for exactly numItems boxes. cfg may be nil to
// use DefaultConfig(). Fails with ErrInvalidConfiguration for an out of range
// node size or item count.
func NewBuilder(numItems int, cfg *Config) (*Builder, error) {
	cfg = cfg.OrDefault()
	if !store.HostLittleEndian() {
		return nil, store.ErrUnsupportedHost
	}
	layout, err := store.ComputeLayout(numItems, cfg.NodeSize)
	if err != nil {
		return nil, err
	}

	data := make([]byte, layout.BufferSize())
	h := store.NewHeader(layout.NodeSize, layout.NumItems)
	hb, err := store.EncodeHeader(&h)
	if err != nil {
		return nil, err
	}
	copy(data, hb)

	cfg.Logger.Debug("builder created",
		zap.Int("items", layout.NumItems),
		zap.Int("nodeSize", layout.NodeSize),
		zap.Int("nodes", layout.NumNodes),
		zap.Int("indexWidth", layout.IndexWidth),
		zap.Int("bytes", layout.BufferSize()))

	return &Builder{
		cfg:    cfg,
		log:    cfg.Logger,
		layout: layout,
		data:   data,
		boxes:  store.BoxesView(data, layout),
		ids:    store.IndicesView(data, layout),
		extent: EmptyBox(),
	}, nil
}

// Add stages a box and returns its item id (0-based insertion order).
// Boxes beyond the declared count are not stored; Finish reports the mismatch.
// Add panics on a finished builder.
func (b *Builder) Add(bb Box) int {
	if b.data == nil {
		panic("indexer: Add on finished Builder")
	}
	id := b.added
	b.added++
	if id >= b.layout.NumItems {
		return id
	}
	// leaf ids are below NumNodes and always fit the chosen width
	_ = b.ids.Set(id, id)
	putBox(b.boxes, b.pos, bb)
	b.pos += 4
	b.extent = b.extent.Extend(bb)
	return id
}

// AddCoords is Add for separate coordinates.
func (b *Builder) AddCoords(minX, minY, maxX, maxY float64) int {
	return b.Add(Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
}

// Len returns the number of boxes added so far.
func (b *Builder) Len() int {
	return b.added
}

// Finish reorders the leaves, synthesizes the internal levels and returns the
// finished Index, which takes ownership of the buffer.
func (b *Builder) Finish() (*Index, error) {
	if b.data == nil {
		return nil, ErrBuilderFinished
	}
	if b.added != b.layout.NumItems {
		return nil, errors.Wrapf(ErrItemCountMismatch, "added %d items when expected %d", b.added, b.layout.NumItems)
	}

	if b.layout.NumItems <= b.layout.NodeSize {
		// one node covers everything: skip sorting and write the root box
		putBox(b.boxes, b.pos, b.extent)
		b.pos += 4
		b.log.Debug("sort skipped", zap.Int("items", b.layout.NumItems), zap.Int("nodeSize", b.layout.NodeSize))
		return b.release(), nil
	}

	t0 := time.Now()
	p := SortParams{
		NumItems: b.layout.NumItems,
		NodeSize: b.layout.NodeSize,
		Extent:   b.extent,
	}
	if err := b.cfg.Sorter.Sort(p, b.boxes[:b.layout.NumItems*4], b.ids); err != nil {
		return nil, errors.Wrap(err, "sort leaves")
	}
	b.log.Debug("leaves sorted", zap.Int("items", b.layout.NumItems), zap.Duration("took", time.Since(t0)))

	if err := b.buildLevels(); err != nil {
		return nil, err
	}
	return b.release(), nil
}

// buildLevels generates the nodes of each tree level bottom-up. A parent's
// index entry is the float offset of its first child.
func (b *Builder) buildLevels() error {
	ns := b.layout.NodeSize
	bounds := b.layout.LevelBounds
	pos := 0
	for _, end := range bounds[:len(bounds)-1] {
		for pos < end {
			first := pos
			node := boxAt(b.boxes, pos)
			pos += 4
			for j := 1; j < ns && pos < end; j++ {
				node = node.Extend(boxAt(b.boxes, pos))
				pos += 4
			}
			if err := b.ids.Set(b.pos>>2, first); err != nil {
				return errors.Wrapf(err, "node %d", b.pos>>2)
			}
			putBox(b.boxes, b.pos, node)
			b.pos += 4
		}
	}
	return nil
}

// release moves the buffer into a new Index and disables the builder.
func (b *Builder) release() *Index {
	idx := &Index{
		data:        b.data,
		boxes:       b.boxes,
		ids:         b.ids,
		numItems:    b.layout.NumItems,
		nodeSize:    b.layout.NodeSize,
		levelBounds: b.layout.LevelBounds,
		log:         b.log,
	}
	idx.startSearchPool(b.cfg.SearchPoolWorkers)
	b.data, b.boxes, b.ids = nil, nil, nil
	b.log.Debug("index finished", zap.Int("nodes", b.layout.NumNodes))
	return idx
}
