// Package observe provides the telemetry bootstrap for HTTP services.
//
// It is a pure instrumentation library: no serving, no transport, no I/O
// beyond exporter setup. Consumers hand the observer to the wiring package,
// which decides whether the request observation filter gets registered.
package observe
