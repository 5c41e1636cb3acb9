/*
Package domain contains the core models of the stochastic clock.

It defines the chain states, the presentation cue attached to each state, the
StateChanged event emitted once per tick, the visit accumulator and the error
taxonomy shared by every other package. This package has no I/O and no
dependencies beyond the standard library.

# Key Entities

  - State: one of the four chain states (0..3).
  - ColorTag: the colour the presentation layer maps a state to.
  - StateChanged: the per-tick notification (state, colour, audio cue).
  - Visits: per-state visit counts for one measurement window.
*/
package domain
