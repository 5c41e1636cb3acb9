/*
Package ports defines the driven ports (interfaces) of the stochastic clock.

The realtime driver knows nothing about terminals, sockets or metrics; it hands
every StateChanged event to a StateSink. Adapters in pkg/adapters,
pkg/observability and internal/presentation implement it.

# Key Interfaces

  - StateSink: consumes the per-tick StateChanged notification.
*/
package ports
