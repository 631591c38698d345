package store

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration is the root of all node size / item count errors.
	ErrInvalidConfiguration = errors.New("invalid index configuration")
	// ErrInvalidNodeSize is returned for node sizes outside [MinNodeSize, MaxNodeSize].
	ErrInvalidNodeSize = errors.Wrap(ErrInvalidConfiguration, "node size out of range")
	// ErrInvalidItemCount is returned for negative counts or counts above MaxItems.
	ErrInvalidItemCount = errors.Wrap(ErrInvalidConfiguration, "item count out of range")

	// ErrEncodingOverflow means a node identifier did not fit the chosen index width.
	ErrEncodingOverflow = errors.New("index encoding overflow")
	// ErrValueOutOfRange is returned by Indices.Set.
	ErrValueOutOfRange = errors.Wrap(ErrEncodingOverflow, "value out of range")

	ErrInvalidMagic         = errors.New("invalid magic")
	ErrUnsupportedVersion   = errors.New("unsupported format version")
	ErrUnsupportedArrayType = errors.New("unsupported array type")
	ErrBufferSize           = errors.New("buffer size does not match header")
	ErrHeaderMismatch       = errors.New("header mismatch")
	// ErrCorrupt means an internal node does not point into the level below it.
	ErrCorrupt = errors.New("corrupt index tree")
	ErrUnsupportedHost      = errors.New("big-endian hosts are not supported")
)
