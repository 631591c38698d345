package indexer

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/indexer/store"
)

// NewIndexFromFile loads an index from path. cfg may be nil to use DefaultConfig();
// an empty path falls back to cfg.PersistPath. Raw files are mapped read-only
// (mmap); files ending in ".sz" are decompressed into memory. Call Close when done.
func NewIndexFromFile(path string, cfg *Config) (*Index, error) {
	cfg = cfg.OrDefault()
	if path == "" {
		path = cfg.PersistPath
	}
	if path == "" {
		return nil, errors.New("no index path given")
	}

	var s store.BufferStore
	var err error
	if store.IsSnappyPath(path) {
		s, err = store.OpenSnappy(path)
	} else {
		s, err = store.OpenMmap(path, cfg.Madvise)
	}
	if err != nil {
		return nil, err
	}
	idx, err := load(s.Bytes(), s, cfg.Logger)
	if err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "load %s", path)
	}
	idx.startSearchPool(cfg.SearchPoolWorkers)
	cfg.Logger.Info("index loaded",
		zap.String("path", path),
		zap.Int("searchWorkers", cfg.SearchPoolWorkers),
		zap.Int("items", idx.numItems),
		zap.Int("nodeSize", idx.nodeSize),
		zap.Int("bytes", len(idx.data)))
	return idx, nil
}

// SaveTo writes the packed buffer to path. Paths ending in ".sz" are written
// as a snappy framed stream.
func (x *Index) SaveTo(path string) error {
	return x.saveTo(path, store.IsSnappyPath(path))
}

// saveTo writes the buffer to path, snappy framed when compressed is set.
func (x *Index) saveTo(path string, compressed bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if compressed {
		err = store.WriteSnappy(f, x.data)
	} else {
		var n int
		n, err = f.Write(x.data)
		if err == nil && n != len(x.data) {
			err = errors.New("failed to write full index buffer")
		}
	}
	if err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	if err := f.Sync(); err != nil {
		return err
	}
	x.log.Info("index saved", zap.String("path", path), zap.Bool("snappy", compressed), zap.Int("bytes", len(x.data)))
	return nil
}

// SaveToAtomic writes the index to a file atomically (write to path+".tmp", then rename).
// The encoding follows path, so a ".sz" target is compressed even though the
// temp name is not.
// On Windows, the target must not exist for Rename to succeed; remove it first.
func (x *Index) SaveToAtomic(path string) error {
	tmp := path + ".tmp"
	if err := x.saveTo(tmp, store.IsSnappyPath(path)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	_ = os.Remove(path) // ignore error if not exists
	return os.Rename(tmp, path)
}

// Close stops the index's search pool, if any, and releases the file mapping
// of an index loaded via NewIndexFromFile. The Index must not be used afterwards.
func (x *Index) Close() error {
	if x.searchPool != nil {
		x.searchPool.Close()
		x.searchPool = nil
	}
	if x.persisted != nil {
		err := x.persisted.Close()
		x.persisted = nil
		x.data, x.boxes, x.ids = nil, nil, nil
		return err
	}
	return nil
}
