/*
Package config loads the clock's configuration.

Every constant of the chain is exposed: the weight matrix (or a named
preset), its normalizer, the tick rate, the steady-state exponent and
tolerance, and the random seed. Values are layered: Default, then a YAML or
JSON file, then STOCHCLOCK_* environment variables (optionally read from a
.env file), then whatever the CLI flags set last.
*/
package config
