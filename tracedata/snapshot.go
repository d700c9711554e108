package tracedata

import "github.com/hupe1980/tracemesh/core"

// Snapshot is the aggregated output of one completed tracing session. It is
// never mutated after construction; accessors return copies of the
// contribution slices.
type Snapshot struct {
	order []core.TracePart
	parts map[core.TracePart][]any
}

func newSnapshot(order []core.TracePart, parts map[core.TracePart][]any) *Snapshot {
	s := &Snapshot{
		order: append([]core.TracePart(nil), order...),
		parts: make(map[core.TracePart][]any, len(parts)),
	}
	for part, values := range parts {
		s.parts[part] = append([]any(nil), values...)
	}
	return s
}

// Parts returns the trace parts in the order they were first written.
func (s *Snapshot) Parts() []core.TracePart {
	return append([]core.TracePart(nil), s.order...)
}

// Has reports whether at least one contribution was written for part.
func (s *Snapshot) Has(part core.TracePart) bool {
	_, ok := s.parts[part]
	return ok
}

// Get returns the contributions for part in append order, or nil.
func (s *Snapshot) Get(part core.TracePart) []any {
	values, ok := s.parts[part]
	if !ok {
		return nil
	}
	return append([]any(nil), values...)
}

// Len returns the total number of contributions across all parts.
func (s *Snapshot) Len() int {
	n := 0
	for _, values := range s.parts {
		n += len(values)
	}
	return n
}
