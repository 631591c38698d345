package store

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// MmapStore is a BufferStore backed by an mmap'd file.
type MmapStore struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmap opens a file and maps it read-only. When adviseRandom is set the
// kernel is told to expect random access (a no-op where unsupported).
func OpenMmap(path string, adviseRandom bool) (*MmapStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() < HeaderSize {
		f.Close()
		return nil, errors.Wrapf(ErrBufferSize, "%s: %d bytes", path, fi.Size())
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %s", path)
	}
	if adviseRandom {
		if err := madviseRandom(m); err != nil {
			m.Unmap()
			f.Close()
			return nil, errors.Wrap(err, "madvise")
		}
	}
	return &MmapStore{f: f, data: m}, nil
}

// Bytes returns the full mapped file.
func (s *MmapStore) Bytes() []byte {
	return s.data
}

// Close unmaps the file and closes it.
func (s *MmapStore) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
