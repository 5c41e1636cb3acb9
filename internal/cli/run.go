package cli

import (
	"io"
	"os"
	"time"
)

// Options carries every flag the commands accept. Zero values keep what the
// config file and environment decided.
type Options struct {
	ConfigPath string
	EnvFiles   []string
	LogLevel   string
	LogFormat  string

	Preset    string
	Seed      *uint64
	TickRate  time.Duration
	RedisAddr string
	HTTPAddr  string

	// run
	JSON        bool
	Ticks       uint64
	MetricsAddr string
	Bell        bool
	NoColor     bool
	NoBanner    bool

	// simulate
	Minutes int
	Day     bool

	// Graph appends a Mermaid diagram to the analyze report.
	Graph bool
	// Plain prints markdown reports without terminal styling.
	Plain bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}
