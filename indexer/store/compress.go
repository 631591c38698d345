package store

import (
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// SnappyExt marks index files written as a snappy framed stream.
const SnappyExt = ".sz"

// IsSnappyPath reports whether path names a compressed index file.
func IsSnappyPath(path string) bool {
	return strings.HasSuffix(path, SnappyExt)
}

// WriteSnappy writes buf to w as a snappy framed stream.
func WriteSnappy(w io.Writer, buf []byte) error {
	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write(buf); err != nil {
		sw.Close()
		return errors.Wrap(err, "snappy write")
	}
	return sw.Close()
}

// ReadSnappy decodes a snappy framed stream into a fresh buffer.
func ReadSnappy(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(snappy.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(err, "snappy read")
	}
	return data, nil
}

// OpenSnappy decompresses the file at path into a heap-backed store.
func OpenSnappy(path string) (*HeapStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ReadSnappy(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if len(data) < HeaderSize {
		return nil, errors.Wrapf(ErrBufferSize, "%s: %d bytes after decompression", path, len(data))
	}
	return NewHeapStore(data), nil
}
