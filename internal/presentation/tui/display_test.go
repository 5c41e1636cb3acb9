package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/stochclock/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(tick uint64, s domain.State) domain.StateChanged {
	return domain.StateChanged{Tick: tick, State: s, Color: s.Color(), AudioCue: s.AudioCue()}
}

func TestDisplay_AsciiHasNoEscapes(t *testing.T) {
	d := &Display{Profile: termenv.Ascii}

	line := d.Render(event(3, domain.StateGreen))
	assert.Equal(t, "[000003] ██ 2 green", line)
	assert.NotContains(t, line, "\x1b[")
}

func TestDisplay_ShowsStateIndex(t *testing.T) {
	d := &Display{Profile: termenv.Ascii}

	tests := []struct {
		state domain.State
		want  string
	}{
		{domain.StateTick, "[000007] ██ 0 white *click*"},
		{domain.StateRed, "[000007] ██ 1 red  "},
		{domain.StateGreen, "[000007] ██ 2 green"},
		{domain.StateBlue, "[000007] ██ 3 blue "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Render(event(7, tt.state)))
	}
}

func TestDisplay_TickCue(t *testing.T) {
	d := &Display{Profile: termenv.Ascii}
	assert.Equal(t, "[000001] ██ 0 white *click*", d.Render(event(1, domain.StateTick)))

	d.Bell = true
	assert.True(t, strings.HasSuffix(d.Render(event(1, domain.StateTick)), bel))
	assert.False(t, strings.HasSuffix(d.Render(event(2, domain.StateRed)), bel))
}

func TestDisplay_ColoursPerState(t *testing.T) {
	d := &Display{Profile: termenv.TrueColor}

	red := d.Render(event(1, domain.StateRed))
	blue := d.Render(event(1, domain.StateBlue))
	assert.Contains(t, red, "\x1b[")
	assert.NotEqual(t, red, blue)
}

func TestPrintBanner_IncludesVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	require.NoError(t, err)

	out, err := render("# Steady state\n\nspeed `1.000000`")
	require.NoError(t, err)
	assert.Contains(t, out, "Steady state")
}
