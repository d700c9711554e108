// Package tracedata contains the trace data sinks handed to tracing agents
// and the immutable snapshot produced at the end of a session.
//
// Builder accumulates every AddTraceFor call and produces a Snapshot once the
// session stops. Discarder presents the same append contract but drops the
// data, which lets a flush throw away everything recorded so far without the
// agents knowing. Encode / Decode persist a Snapshot as a compressed CBOR
// frame.
package tracedata
