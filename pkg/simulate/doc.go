/*
Package simulate runs the chain offline to check it against its analysis.

A Simulator owns a Stepper and the current chain state. Run advances it for a
fixed number of steps and returns the visit counts; ValidateMinutes and
ValidateDay reproduce the two sanity runs printed at start-up (twenty
simulated minutes, then one simulated day). Compare measures how far a window
strayed from the analytic stationary probability of state 0, next to the
binomial bound expected at that sample size.
*/
package simulate
