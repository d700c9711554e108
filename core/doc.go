// Package core provides the foundational contracts shared by the tracing
// controller and the tracing agents it drives. It defines:
//
//   - Agent, the required lifecycle of every tracing agent (start, stop, collect)
//   - Flusher and ClockSyncer, optional capabilities guarded by a predicate
//   - MetadataAgent, the clock-sync issuer that always takes priority slot 0
//   - TraceDataSink, the single append operation agents write their data through
//   - Platform, the opaque handle agents are constructed against
//
// The package keeps concrete agents, persistence of trace data and the
// orchestration policy out of scope so that agent implementations only
// depend on these small interfaces.
package core
