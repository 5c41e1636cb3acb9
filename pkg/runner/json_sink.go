package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/stochclock/pkg/domain"
)

// JSONSink writes each event as one JSON line (NDJSON).
type JSONSink struct {
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONSink creates a sink writing to w (Stdout if nil).
func NewJSONSink(w io.Writer) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	return &JSONSink{
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (s *JSONSink) Emit(_ context.Context, evt domain.StateChanged) error {
	return s.Encoder.Encode(evt)
}
