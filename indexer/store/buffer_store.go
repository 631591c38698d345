package store

// BufferStore provides read-only access to a persisted index buffer.
type BufferStore interface {
	// Bytes returns the full buffer. The slice is valid until Close is called.
	// Caller must not modify it.
	Bytes() []byte
	// Close releases resources (e.g. unmaps the file).
	Close() error
}

// HeapStore is a BufferStore over an in-memory buffer.
type HeapStore struct {
	data []byte
}

// NewHeapStore wraps data without copying it.
func NewHeapStore(data []byte) *HeapStore {
	return &HeapStore{data: data}
}

// Bytes returns the buffer.
func (s *HeapStore) Bytes() []byte {
	return s.data
}

// Close drops the buffer reference.
func (s *HeapStore) Close() error {
	s.data = nil
	return nil
}
