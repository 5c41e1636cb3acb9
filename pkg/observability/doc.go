/*
Package observability provides sinks for watching the clock from outside the loop.

Metrics exports per-state visit counters and the analytic speed/drift as
Prometheus collectors. Tracker keeps a mutex-guarded snapshot of the live run
for the HTTP adapter. Both implement ports.StateSink and are safe to read while
the loop is emitting.
*/
package observability
