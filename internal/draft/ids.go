package draft

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource generates local identifiers for exercises and sets.
type IDSource func() string

// NewUUID is the default IDSource: random version 4 UUIDs.
func NewUUID() string {
	return uuid.NewString()
}

// Counter returns an IDSource yielding prefix1, prefix2, ... Safe for
// concurrent use.
func Counter(prefix string) IDSource {
	var n atomic.Uint64
	return func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	}
}
