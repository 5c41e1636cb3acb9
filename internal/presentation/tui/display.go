package tui

import (
	"fmt"

	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/muesli/termenv"
)

// bel rings the terminal bell, the closest a terminal gets to a click.
const bel = "\a"

var palette = map[domain.ColorTag]string{
	domain.ColorWhite: "#f9fafb",
	domain.ColorRed:   "#ef4444",
	domain.ColorGreen: "#22c55e",
	domain.ColorBlue:  "#3b82f6",
}

// Display renders tick events as coloured terminal lines.
type Display struct {
	Profile termenv.Profile
	// Bell appends BEL to lines whose state carries the audio cue.
	Bell bool
}

// NewDisplay detects the colour profile of the terminal on stdout.
func NewDisplay(bell bool) *Display {
	return &Display{Profile: termenv.ColorProfile(), Bell: bell}
}

// Render satisfies runner.StateRenderer.
func (d *Display) Render(evt domain.StateChanged) string {
	colour := d.Profile.Color(palette[evt.Color])
	swatch := d.Profile.String("██").Foreground(colour)
	index := d.Profile.String(fmt.Sprintf("%d", int(evt.State))).Foreground(colour)
	label := d.Profile.String(fmt.Sprintf("%-5s", evt.Color))
	if evt.AudioCue {
		index = index.Bold()
		label = label.Bold()
	}

	line := fmt.Sprintf("[%06d] %s %s %s", evt.Tick, swatch, index, label)
	if evt.AudioCue {
		line += " *click*"
		if d.Bell {
			line += bel
		}
	}
	return line
}
