package tracedata

import (
	"sync"

	"github.com/hupe1980/tracemesh/core"
)

// Builder is the accumulating core.TraceDataSink of a running session. It
// keeps the contributions of every part in append order and remembers the
// order in which parts were first seen.
//
// Layout: part -> contributions
//
// Builder is guarded by a mutex because agents may append from their own
// goroutines while the controller drives them.
type Builder struct {
	mu    sync.Mutex
	order []core.TracePart
	parts map[core.TracePart][]any
}

var _ core.TraceDataSink = (*Builder)(nil)

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{parts: make(map[core.TracePart][]any)}
}

// AddTraceFor appends value to the contributions of part.
func (b *Builder) AddTraceFor(part core.TracePart, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.parts[part]; !ok {
		b.order = append(b.order, part)
	}
	b.parts[part] = append(b.parts[part], value)
}

// Len returns the number of contributions appended so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, values := range b.parts {
		n += len(values)
	}
	return n
}

// Build returns an immutable snapshot of everything appended so far. The
// builder stays usable; later appends do not affect the returned snapshot.
func (b *Builder) Build() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return newSnapshot(b.order, b.parts)
}

// Discarder is a do-nothing sink that drops all trace data.
type Discarder struct{}

var _ core.TraceDataSink = Discarder{}

// AddTraceFor discards value.
func (Discarder) AddTraceFor(core.TracePart, any) {}
