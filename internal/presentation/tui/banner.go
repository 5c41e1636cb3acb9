package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stochclock banner, coloured with the four state colours.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []termenv.Style{
		termenv.String("      _             _          _            _   ").Foreground(p.Color("#e5e7eb")),
		termenv.String("  ___| |_ ___   ___| |__   ___| | ___   ___| | __").Foreground(p.Color("#f87171")),
		termenv.String(" / __| __/ _ \\ / __| '_ \\ / __| |/ _ \\ / __| |/ /").Foreground(p.Color("#4ade80")),
		termenv.String(" \\__ \\ || (_) | (__| | | | (__| | (_) | (__|   < ").Foreground(p.Color("#60a5fa")),
		termenv.String(" |___/\\__\\___/ \\___|_| |_|\\___|_|\\___/ \\___|_|\\_\\").Foreground(p.Color("#818cf8")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintf(w, "  %s\n\n", termenv.String("v"+version).Faint())
}
