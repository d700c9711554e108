package controller

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRunning is the panic value (wrapped) raised when Stop or Flush is
// called on an idle controller. It signals a caller bug, not a recoverable
// condition.
var ErrNotRunning = errors.New("tracing is not running")

// Operation names one agent operation invoked by the controller.
type Operation string

// Agent operations, named after the agent methods they call.
const (
	OpStart     Operation = "StartAgentTracing"
	OpStop      Operation = "StopAgentTracing"
	OpCollect   Operation = "CollectAgentTraceData"
	OpFlush     Operation = "FlushAgentTracing"
	OpClockSync Operation = "RecordClockSyncMarker"
)

// Phase names a controller phase whose failures are aggregated.
type Phase string

// Controller phases surfacing a TracingError.
const (
	PhaseStop      Phase = "stop"
	PhaseFlush     Phase = "flush"
	PhaseClockSync Phase = "clock sync"
)

func (p Phase) action() string {
	if p == PhaseClockSync {
		return "issue clock sync markers"
	}
	return string(p) + " tracing"
}

// PanicError carries the value of a panic recovered from an agent call.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// AgentFailure is one failed agent operation.
type AgentFailure struct {
	Agent string
	Op    Operation
	Err   error
	// Stack is the goroutine stack captured when Err is a recovered panic.
	Stack string
}

// Error returns the full diagnostic text of the failure.
func (f *AgentFailure) Error() string {
	msg := fmt.Sprintf("%s.%s: %v", f.Agent, f.Op, f.Err)
	if f.Stack != "" {
		msg += "\n" + strings.TrimRight(f.Stack, "\n")
	}
	return msg
}

func (f *AgentFailure) Unwrap() error { return f.Err }

// TracingError aggregates every agent failure of one phase.
type TracingError struct {
	Phase    Phase
	Failures []*AgentFailure
}

func (e *TracingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exceptions raised when trying to %s:", e.Phase.action())
	for _, f := range e.Failures {
		b.WriteString("\n")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *TracingError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

func newTracingError(phase Phase, failures []*AgentFailure) error {
	if len(failures) == 0 {
		return nil
	}
	return &TracingError{Phase: phase, Failures: failures}
}
