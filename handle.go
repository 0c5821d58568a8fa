package imapflow

import (
	"fmt"
	"sync/atomic"

	uuid "github.com/satori/go.uuid"
)

// RawHandle is the underlying value behind every Handle: a
// monotonically-increasing counter paired with the identifier of the
// peer instance that generated it, so handles from different peers can
// never compare equal by accident.
type RawHandle struct {
	generatorID uuid.UUID
	handleID    uint64
}

func (h RawHandle) generatorIDString() string { return h.generatorID.String() }
func (h RawHandle) handleIDUint() uint64       { return h.handleID }

// Handle is implemented by CommandHandle and ResponseHandle.
type Handle interface {
	fromRaw(raw RawHandle)
	raw() RawHandle
}

// HandleGenerator mints handles for a single peer instance. It must not
// be shared across peers: doing so would defeat the purpose of the
// embedded generator identifier.
type HandleGenerator struct {
	generatorID uuid.UUID
	counter     uint64
}

// NewHandleGenerator creates a fresh generator, keyed by a new random
// identifier. Never use a process-wide global counter here - each peer
// owns one generator for its entire lifetime.
func NewHandleGenerator() *HandleGenerator {
	return &HandleGenerator{generatorID: uuid.NewV4()}
}

// Generate returns the next handle. Handles never recycle within a
// generator's lifetime.
func (g *HandleGenerator) Generate() RawHandle {
	id := atomic.AddUint64(&g.counter, 1)
	return RawHandle{generatorID: g.generatorID, handleID: id}
}

// CommandHandle identifies one enqueued client command through its
// lifecycle from Enqueue to its terminal Sent/Rejected event.
type CommandHandle struct{ raw_ RawHandle }

func (h *CommandHandle) fromRaw(raw RawHandle) { h.raw_ = raw }
func (h *CommandHandle) raw() RawHandle        { return h.raw_ }

// NewCommandHandle wraps a RawHandle minted by a HandleGenerator.
func NewCommandHandle(raw RawHandle) CommandHandle { return CommandHandle{raw_: raw} }

func (h CommandHandle) String() string {
	return fmt.Sprintf("CommandHandle(%s/%d)", shortGen(h.raw_), h.raw_.handleIDUint())
}

// Equal reports whether two handles were generated by the same generator
// and carry the same counter value.
func (h CommandHandle) Equal(other CommandHandle) bool {
	return h.raw_.generatorID == other.raw_.generatorID && h.raw_.handleID == other.raw_.handleID
}

// ResponseHandle identifies one enqueued server response.
type ResponseHandle struct{ raw_ RawHandle }

func (h *ResponseHandle) fromRaw(raw RawHandle) { h.raw_ = raw }
func (h *ResponseHandle) raw() RawHandle        { return h.raw_ }

// NewResponseHandle wraps a RawHandle minted by a HandleGenerator.
func NewResponseHandle(raw RawHandle) ResponseHandle { return ResponseHandle{raw_: raw} }

func (h ResponseHandle) String() string {
	return fmt.Sprintf("ResponseHandle(%s/%d)", shortGen(h.raw_), h.raw_.handleIDUint())
}

// Equal reports whether two handles were generated by the same generator
// and carry the same counter value.
func (h ResponseHandle) Equal(other ResponseHandle) bool {
	return h.raw_.generatorID == other.raw_.generatorID && h.raw_.handleID == other.raw_.handleID
}

func shortGen(raw RawHandle) string {
	s := raw.generatorIDString()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
