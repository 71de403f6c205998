package logging

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	Log     zerolog.Logger
	Scanner zerolog.Logger
	Debug   bool

	out    = &switchWriter{}
	toFile bool
)

// switchWriter lets the destination change while loggers are in use
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

func (s *switchWriter) target() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w
}

func init() {
	// REPORTER_DEBUG enables debug output, REPORTER_LOG_FILE redirects it
	Debug = os.Getenv("REPORTER_DEBUG") != ""

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	if path := os.Getenv("REPORTER_LOG_FILE"); path != "" {
		logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			w = logFile
			toFile = true
		}
	}
	out.w = w

	level := zerolog.InfoLevel
	if Debug {
		level = zerolog.DebugLevel
	}
	Log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	Scanner = Log.With().Str("component", "scanner").Logger()
}

// SetOutput points both loggers at w
func SetOutput(w io.Writer) {
	out.swap(w)
}

// Output returns the current log destination
func Output() io.Writer {
	return out.target()
}

// SetVerbose switches debug output on or off
func SetVerbose(verbose bool) {
	Debug = verbose
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	Log = Log.Level(level)
	Scanner = Scanner.Level(level)
}

// Hold buffers log output while something else owns the terminal. The
// returned release function restores the previous destination and replays
// the buffered lines to it. Output going to a log file is left alone.
func Hold() (release func()) {
	if toFile {
		return func() {}
	}

	held := &bytes.Buffer{}
	prev := out.swap(held)

	var once sync.Once
	return func() {
		once.Do(func() {
			out.swap(prev)
			for _, line := range bytes.SplitAfter(held.Bytes(), []byte("\n")) {
				if len(line) > 0 {
					_, _ = out.Write(line)
				}
			}
		})
	}
}
