package cli

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// quitKeys are q, Ctrl-C and Esc as they arrive from a raw terminal.
const quitKeys = "qQ\x03\x1b"

// RawTerminal puts r into raw mode when it is a terminal, so single key
// presses arrive without Enter. The returned restore func is always safe to
// call.
func RawTerminal(r io.Reader) (restore func(), raw bool) {
	f, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}, false
	}
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return func() {}, false
	}
	return func() { _ = term.Restore(int(f.Fd()), state) }, true
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WatchQuitKeys closes the returned channel when the user asks to quit.
// In raw mode that is a single q, Ctrl-C or Esc. Otherwise input is read a
// line at a time and "q" or "quit" stops the clock. End of input never
// quits, so the clock keeps running with stdin closed.
func WatchQuitKeys(r io.Reader, raw bool) <-chan struct{} {
	quit := make(chan struct{})
	go func() {
		if raw {
			watchKeys(r, quit)
		} else {
			watchLines(r, quit)
		}
	}()
	return quit
}

func watchKeys(r io.Reader, quit chan<- struct{}) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if n > 0 && bytes.ContainsAny(buf[:n], quitKeys) {
			close(quit)
			return
		}
		if err != nil {
			return
		}
	}
}

func watchLines(r io.Reader, quit chan<- struct{}) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "q", "quit", "exit":
			close(quit)
			return
		}
	}
}

// crlfWriter turns \n into \r\n. A terminal in raw mode no longer returns
// the carriage on line feed.
type crlfWriter struct {
	w io.Writer
}

// NewCRLFWriter wraps w for output while the terminal is in raw mode.
func NewCRLFWriter(w io.Writer) io.Writer {
	return &crlfWriter{w: w}
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
