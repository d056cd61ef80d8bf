// Package ids mints ULID identifiers for records created by the service.
// ULIDs are time-ordered, so listing by ID prefix matches listing by
// creation time, and the shared monotonic entropy source keeps IDs unique
// under concurrent calls within the same millisecond.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh ULID string.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
