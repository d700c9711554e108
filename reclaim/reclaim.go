// Package reclaim suspends background memory reclamation for short, latency
// sensitive sections such as clock sync marker emission.
//
// The pause is process wide. Scope guarantees the matching resume on every
// path out of the section, including a panic raised by code inside it.
package reclaim

import (
	"runtime/debug"
	"sync"
)

// Pauser suspends background reclamation until the returned resume func is
// called. Resume must be safe to call exactly once.
type Pauser interface {
	Pause() (resume func())
}

// The collector setting is process wide, so the pause depth and the
// percentage to restore are shared by every Runtime value.
var (
	gcMu      sync.Mutex
	gcDepth   int
	gcPercent int
)

// Runtime pauses the Go garbage collector by setting GOGC to off for the
// duration of the section and restoring the previous percentage afterwards.
// Pauses are reference counted across all Runtime values, so only the last
// resume in the process restores the collector, whatever order the sections
// end in.
type Runtime struct{}

// Pause turns the collector off.
func (Runtime) Pause() func() {
	gcMu.Lock()
	if gcDepth == 0 {
		gcPercent = debug.SetGCPercent(-1)
	}
	gcDepth++
	gcMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			gcMu.Lock()
			defer gcMu.Unlock()

			gcDepth--
			if gcDepth == 0 {
				debug.SetGCPercent(gcPercent)
			}
		})
	}
}

// NoOp is a Pauser for runtimes or tests where reclamation must not be touched.
type NoOp struct{}

// Pause does nothing.
func (NoOp) Pause() func() { return func() {} }

// Scope runs fn with reclamation paused and resumes it when fn returns or
// panics. A nil Pauser runs fn unpaused.
func Scope(p Pauser, fn func() error) error {
	if p == nil {
		return fn()
	}

	resume := p.Pause()
	defer resume()

	return fn()
}

// Do is Scope for sections that cannot fail.
func Do(p Pauser, fn func()) {
	_ = Scope(p, func() error {
		fn()
		return nil
	})
}
