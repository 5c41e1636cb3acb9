package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/stochclock"
	"github.com/aretw0/stochclock/internal/presentation/graph"
	"github.com/aretw0/stochclock/internal/presentation/report"
	"github.com/aretw0/stochclock/internal/presentation/tui"
	"github.com/aretw0/stochclock/pkg/simulate"
)

// Analyze prints the steady-state report of the configured matrix.
func Analyze(o Options) error {
	o = o.withDefaults()
	cfg, err := LoadConfig(o)
	if err != nil {
		return err
	}
	logger, err := NewLogger(o.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	clock, err := stochclock.FromConfig(cfg, stochclock.WithLogger(logger))
	if err != nil {
		return err
	}

	r := clock.Report()
	if o.JSON {
		return writeJSON(o.Stdout, r)
	}
	md := report.Steady(clock.Matrix(), r)
	if o.Graph {
		md += "\n```mermaid\n" + graph.GenerateMermaid(clock.Matrix(), nil) + "```\n"
	}
	return writeMarkdown(o, md)
}

// simulation is the JSON shape of the simulate command.
type simulation struct {
	Windows    []simulate.Window    `json:"windows"`
	Deviations []simulate.Deviation `json:"deviations"`
}

// Simulate runs minute windows (or a whole day) and compares them with the
// steady-state report.
func Simulate(ctx context.Context, o Options) error {
	o = o.withDefaults()
	cfg, err := LoadConfig(o)
	if err != nil {
		return err
	}
	logger, err := NewLogger(o.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	clock, err := stochclock.FromConfig(cfg, stochclock.WithLogger(logger))
	if err != nil {
		return err
	}

	sim := clock.Simulator()
	var windows []simulate.Window
	if o.Day {
		w, err := sim.ValidateDay(ctx)
		if err != nil {
			return err
		}
		windows = []simulate.Window{w}
	} else {
		minutes := o.Minutes
		if minutes <= 0 {
			minutes = cfg.MinuteWindows
		}
		windows, err = sim.ValidateMinutes(ctx, minutes)
		if err != nil {
			return err
		}
	}

	r := clock.Report()
	if o.JSON {
		out := simulation{Windows: windows}
		for _, w := range windows {
			out.Deviations = append(out.Deviations, simulate.Compare(w, r))
		}
		return writeJSON(o.Stdout, out)
	}
	return writeMarkdown(o, report.Windows(windows, r))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeMarkdown styles md with glamour on a terminal and prints it raw
// otherwise.
func writeMarkdown(o Options, md string) error {
	if o.Plain || !IsTerminal(o.Stdout) {
		_, err := io.WriteString(o.Stdout, md)
		return err
	}
	render, err := tui.NewRenderer(100)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = io.WriteString(o.Stdout, out)
	return err
}
