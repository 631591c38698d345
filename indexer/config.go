package indexer

import (
	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/indexer/store"
)

// Config holds index parameters.
type Config struct {
	NodeSize    int         // branching factor in [2, 65535], default 16
	Sorter      Sorter      // leaf reordering before node synthesis, default HilbertSort
	Logger      *zap.Logger // nil: no logging
	PersistPath string      // default file for NewIndexFromFile when path is empty
	Madvise     bool        // advise random access on mmap-loaded buffers

	SearchPoolWorkers int // when >0, Search runs on a resident worker pool of this size (throttles mmap page faults)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NodeSize: store.DefaultNodeSize,
		Sorter:   HilbertSort,
		Logger:   zap.NewNop(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise fills unset fields of c.
// A non-zero NodeSize is kept as is and validated by NewBuilder.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.NodeSize == 0 {
		c.NodeSize = store.DefaultNodeSize
	}
	if c.Sorter == nil {
		c.Sorter = HilbertSort
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
