package domain

import "time"

// StateChanged is emitted once per tick by the realtime driver.
// It is the whole contract with the presentation layer.
type StateChanged struct {
	// Tick is the 1-based sequence number within the run.
	Tick     uint64    `json:"tick"`
	State    State     `json:"state"`
	Color    ColorTag  `json:"color_tag"`
	AudioCue bool      `json:"audio_cue"`
	RunID    string    `json:"run_id,omitempty"`
	At       time.Time `json:"at"`
}

// NewStateChanged builds the event for s with the cue mapping applied.
func NewStateChanged(tick uint64, s State, runID string, at time.Time) StateChanged {
	return StateChanged{
		Tick:     tick,
		State:    s,
		Color:    s.Color(),
		AudioCue: s.AudioCue(),
		RunID:    runID,
		At:       at,
	}
}
