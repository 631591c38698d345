package indexer

import (
	"github.com/pkg/errors"

	"github.com/ic-timon/flatbush/indexer/store"
)

var (
	ErrInvalidConfiguration = store.ErrInvalidConfiguration
	ErrEncodingOverflow     = store.ErrEncodingOverflow
	ErrBufferSize           = store.ErrBufferSize
	ErrCorrupt              = store.ErrCorrupt

	// ErrItemCountMismatch is returned by Finish when the number of added
	// boxes differs from the count the builder was created for.
	ErrItemCountMismatch = errors.New("item count mismatch")
	// ErrBuilderFinished is returned by Finish on an already finished builder.
	ErrBuilderFinished = errors.New("builder already finished")
)
