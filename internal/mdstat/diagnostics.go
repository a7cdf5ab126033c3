package mdstat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Severity of a Diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic describes one recovered deviation from the expected input shape.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Line is the 1-based index into the normalized lines, 0 when the
	// diagnostic is not tied to a line.
	Line int
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink receives diagnostics. Implementations must not block for long and
// must never abort the caller.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Recorder keeps every diagnostic it receives. Safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// Report appends d.
func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Len returns the number of recorded diagnostics.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diagnostics)
}

// LogSink writes diagnostics to a structured logger. A nil Logger uses
// slog.Default().
type LogSink struct {
	Logger *slog.Logger
}

// Report logs d at the level matching its severity.
func (s LogSink) Report(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{slog.String("severity", d.Severity.String())}
	if d.Line > 0 {
		attrs = append(attrs, slog.Int("line", d.Line))
	}
	logger.LogAttrs(context.Background(), d.Severity.level(), "mdstat: "+d.Message, attrs...)
}

func (s Severity) level() slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// MultiSink fans every diagnostic out to all non-nil sinks.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}

func sinkOrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
