package scheduler

import (
	"fmt"
	"sync/atomic"

	"github.com/numbleroot/imapflow/wire"
)

// TagGenerator mints client command tags. One generator belongs to
// exactly one Scheduler for its lifetime, mirroring imapflow's
// HandleGenerator discipline against process-wide global counters.
type TagGenerator struct {
	counter uint64
}

// NewTagGenerator creates a fresh generator starting at tag "A1".
func NewTagGenerator() *TagGenerator {
	return &TagGenerator{}
}

// Generate returns the next tag.
func (g *TagGenerator) Generate() wire.Tag {
	n := atomic.AddUint64(&g.counter, 1)
	return wire.Tag(fmt.Sprintf("A%d", n))
}
