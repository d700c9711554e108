package agent

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tracemesh/core"
)

var (
	// ErrUnknownKind is returned when a variant's Kind is not in Priority.
	ErrUnknownKind = errors.New("agent: unknown kind")
	// ErrDuplicateKind is returned when two variants share a Kind.
	ErrDuplicateKind = errors.New("agent: duplicate kind")
	// ErrIncompleteVariant is returned when a variant lacks IsSupported or New.
	ErrIncompleteVariant = errors.New("agent: variant needs IsSupported and New")
)

// Variant describes how to detect and construct one kind of tracing agent.
type Variant struct {
	Kind Kind

	// IsSupported reports whether the agent can run on the platform.
	IsSupported func(p core.Platform) bool

	// New constructs a fresh agent for one session.
	New func(p core.Platform) core.Agent

	// ClearState optionally resets persistent per-platform state the agent
	// may leave behind (for example startup tracing configuration).
	ClearState func(p core.Platform)
}

// Registry is a closed set of agent variants, at most one per Kind. The
// zero value is an empty registry.
type Registry struct {
	variants map[Kind]Variant
}

// NewRegistry builds a registry from variants given in any order.
func NewRegistry(variants ...Variant) (*Registry, error) {
	r := &Registry{variants: make(map[Kind]Variant, len(variants))}
	for _, v := range variants {
		if err := r.add(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Intended for
// package level wiring with statically known variants.
func MustRegistry(variants ...Variant) *Registry {
	r, err := NewRegistry(variants...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry contains only the built-in telemetry agent.
func DefaultRegistry() *Registry {
	return MustRegistry(TelemetryVariant())
}

// With returns a copy of r extended by variants.
func (r *Registry) With(variants ...Variant) (*Registry, error) {
	out := &Registry{variants: make(map[Kind]Variant, len(r.variants)+len(variants))}
	for k, v := range r.variants {
		out.variants[k] = v
	}
	for _, v := range variants {
		if err := out.add(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Registry) add(v Variant) error {
	if !v.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(v.Kind))
	}
	if v.IsSupported == nil || v.New == nil {
		return fmt.Errorf("%w: %s", ErrIncompleteVariant, v.Kind)
	}
	if r.variants == nil {
		r.variants = make(map[Kind]Variant)
	}
	if _, exists := r.variants[v.Kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, v.Kind)
	}
	r.variants[v.Kind] = v
	return nil
}

// Variants returns the registered variants in Priority order.
func (r *Registry) Variants() []Variant {
	out := make([]Variant, 0, len(r.variants))
	for _, k := range Priority {
		if v, ok := r.variants[k]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Lookup returns the variant registered for kind.
func (r *Registry) Lookup(kind Kind) (Variant, bool) {
	v, ok := r.variants[kind]
	return v, ok
}

// Len returns the number of registered variants.
func (r *Registry) Len() int { return len(r.variants) }
