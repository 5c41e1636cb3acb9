/*
Package runner implements the realtime loop that drives the clock.

A Runner owns the live simulation context: the current chain state, the
visit accumulator and the tick counter. Each iteration drains the quit
sources without blocking, advances the chain by exactly one step, records
the visit, hands a StateChanged event to the configured sink and then waits
for the pacer. Nothing in the loop is shared, so nothing is locked.

# Key Components

  - Runner: the loop and its state.
  - Pacer: paces iterations (a time.Ticker by default, 4 Hz).
  - SignalManager: turns SIGINT/SIGTERM into context cancellation.
  - TextSink, JSONSink: line-oriented sinks for terminals and pipes.

# Usage

	r := runner.NewRunner(chain.Reference(),
		runner.WithSink(runner.NewJSONSink(os.Stdout)),
		runner.WithMaxTicks(40),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
