package domain

import "fmt"

// NumStates is the fixed size of the chain.
const NumStates = 4

// State is a chain state. Only 0..NumStates-1 are valid.
type State int

const (
	// StateTick is the "second tick" state. It carries the audio cue.
	StateTick State = iota
	StateRed
	StateGreen
	StateBlue
)

// InitialState is the state every run starts from by convention.
const InitialState = StateTick

// Valid reports whether s is one of the chain states.
func (s State) Valid() bool {
	return s >= 0 && s < NumStates
}

// Validate returns a ConfigError when s is out of range.
func (s State) Validate() error {
	if !s.Valid() {
		return &ConfigError{Field: "state", Reason: fmt.Sprintf("state %d out of range [0,%d)", int(s), NumStates)}
	}
	return nil
}

func (s State) String() string {
	return fmt.Sprintf("%d", int(s))
}

// ColorTag names the colour the presentation layer uses for a state.
type ColorTag string

const (
	ColorWhite ColorTag = "white"
	ColorRed   ColorTag = "red"
	ColorGreen ColorTag = "green"
	ColorBlue  ColorTag = "blue"
)

var stateColors = [NumStates]ColorTag{ColorWhite, ColorRed, ColorGreen, ColorBlue}

// Color returns the colour tag for s. Invalid states map to the empty tag.
func (s State) Color() ColorTag {
	if !s.Valid() {
		return ""
	}
	return stateColors[s]
}

// AudioCue reports whether entering s plays the click sound.
func (s State) AudioCue() bool {
	return s == StateTick
}
