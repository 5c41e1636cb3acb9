/*
Package stochclock is a clock whose hand moves by chance.

Each tick the clock occupies one of four states. State 0 is the "second"
state: it is shown white and plays a click. States 1, 2 and 3 are shown red,
green and blue. On every tick the next state is drawn from a fixed 4x4
row-stochastic transition matrix, so the clock keeps time only on average:
if the stationary probability of state 0 is π₀ and the clock ticks four times
a second, it clicks 4·π₀ times per second in the long run.

# Usage

	clock, err := stochclock.New(stochclock.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	// Long-run behaviour, computed once by New.
	r := clock.Report()
	fmt.Printf("speed %.6f, drift %.2f s/day\n", r.Speed, r.DriftPerDay)

	// Offline: simulate a day and compare against the analysis.
	day, _ := clock.Simulator().ValidateDay(ctx)
	fmt.Println(simulate.Compare(day, r).Within)

	// Realtime: one step every 250ms until ctx is cancelled.
	run := clock.Runner(runner.WithSink(runner.NewTextSink(os.Stdout)))
	_ = run.Run(ctx)

# Packages

  - pkg/chain: transition matrix, steady-state analysis and the stepper.
  - pkg/simulate: fixed-length runs and minute/day validation windows.
  - pkg/runner: the realtime driver loop and its sinks.
  - pkg/config: YAML/JSON configuration with environment overrides.
  - pkg/observability, pkg/adapters: Prometheus, Redis and HTTP sinks.
*/
package stochclock
