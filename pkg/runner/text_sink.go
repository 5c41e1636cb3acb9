package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/stochclock/pkg/domain"
)

// StateRenderer turns an event into the text shown for it.
// This allows coloured terminal output without coupling the runner to it.
type StateRenderer func(domain.StateChanged) string

// TextSink writes one line per tick.
type TextSink struct {
	Writer   io.Writer
	Renderer StateRenderer
}

// NewTextSink creates a sink writing to w (Stdout if nil).
func NewTextSink(w io.Writer) *TextSink {
	if w == nil {
		w = os.Stdout
	}
	return &TextSink{Writer: w}
}

func (s *TextSink) Emit(_ context.Context, evt domain.StateChanged) error {
	line := PlainLine(evt)
	if s.Renderer != nil {
		line = s.Renderer(evt)
	}
	_, err := fmt.Fprintln(s.Writer, line)
	return err
}

// PlainLine is the uncoloured rendering used when no Renderer is set.
func PlainLine(evt domain.StateChanged) string {
	cue := ""
	if evt.AudioCue {
		cue = " *click*"
	}
	return fmt.Sprintf("[%06d] %d %-5s%s", evt.Tick, int(evt.State), evt.Color, cue)
}
