package session

import (
	"time"

	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/tracedata"
)

// State is the session state of a running controller.
type State struct {
	id      string
	config  config.TracingConfig
	timeout time.Duration
	builder *tracedata.Builder
	started time.Time
}

// New creates the state for a session started now with cfg and timeout.
func New(cfg config.TracingConfig, timeout time.Duration) *State {
	return &State{
		id:      core.NewID(),
		config:  cfg,
		timeout: timeout,
		builder: tracedata.NewBuilder(),
		started: time.Now().UTC(),
	}
}

// ID returns the unique session identifier used for log correlation.
func (s *State) ID() string { return s.id }

// Config returns the config the session was started with.
func (s *State) Config() config.TracingConfig { return s.config }

// Timeout returns the per-operation timeout forwarded to agents.
func (s *State) Timeout() time.Duration { return s.timeout }

// Builder returns the accumulating sink Stop collects into.
func (s *State) Builder() *tracedata.Builder { return s.builder }

// StartedAt returns the UTC time the session was created.
func (s *State) StartedAt() time.Time { return s.started }
