package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrConfig       = errors.New("invalid configuration")
	ErrNonConverged = errors.New("steady state did not converge")
	ErrSampling     = errors.New("random draw out of range")
)

// ConfigError reports a malformed chain configuration, typically a
// transition matrix row that is not a probability distribution.
type ConfigError struct {
	Field  string // e.g. "row 2", "normalizer"
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NonConvergedError reports that the powered matrix has not settled into a
// single stationary distribution.
type NonConvergedError struct {
	Exponent int
	Residual float64
	Reason   string
}

func (e *NonConvergedError) Error() string {
	return fmt.Sprintf("steady state: %s after exponent %d (residual %.3g)", e.Reason, e.Exponent, e.Residual)
}

func (e *NonConvergedError) Is(target error) bool { return target == ErrNonConverged }

// SamplingError reports a random draw outside [0,1).
type SamplingError struct {
	Value float64
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("sampling: draw %v outside [0,1)", e.Value)
}

func (e *SamplingError) Is(target error) bool { return target == ErrSampling }
