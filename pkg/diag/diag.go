package diag

import "fmt"

// Severity classifies a diagnostic message.
type Severity int

const (
	// Debug messages reach the sink only when their level is at most the
	// Reporter's verbosity.
	Debug Severity = iota
	// Warning messages are never fatal and are always forwarded.
	Warning
	// Error messages accumulate; past a configurable threshold they abort
	// the run.
	Error
	// Fatal messages terminate immediately.
	Fatal
)

// String returns the severity's name.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Message is one diagnostic emission.
type Message struct {
	Severity Severity
	// Level is the hierarchical indentation depth; 0 is top-level.
	Level int
	Text  string
}

// Sink receives diagnostic messages as they are emitted. Implementations
// decide how (or whether) to surface each severity; a Reporter given no
// Sink discards messages, and an embedding renderer can install its own
// Sink to route messages into its own UI.
type Sink interface {
	Emit(Message)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Message)

// Emit calls f(m).
func (f SinkFunc) Emit(m Message) { f(m) }

// Reporter accumulates diagnostics during a pass (tag resolution, map
// building, planning) and tracks whether the configured error threshold
// has been exceeded. Grounded on the accumulate-then-report pattern of
// the teacher's ValidationReport (debug/warning/error/fatal generalizes
// that struct's hard/soft constraint result lists).
type Reporter struct {
	sink      Sink
	verbosity int
	maxErrors int // 0 means unlimited

	errorCount int
	messages   []Message
	aborted    bool
}

// NewReporter creates a Reporter that forwards every non-debug message,
// and debug messages whose level is at most verbosity, to sink (a nil
// sink discards them), and treats more than maxErrors Error-severity
// messages as an abort condition. maxErrors <= 0 means unlimited.
func NewReporter(sink Sink, verbosity, maxErrors int) *Reporter {
	if sink == nil {
		sink = SinkFunc(func(Message) {})
	}
	return &Reporter{sink: sink, verbosity: verbosity, maxErrors: maxErrors}
}

// Debugf emits a debug-severity message at the given indentation level.
func (r *Reporter) Debugf(level int, format string, args ...any) {
	r.emit(Debug, level, fmt.Sprintf(format, args...))
}

// Warnf emits a warning-severity message at the given indentation level.
func (r *Reporter) Warnf(level int, format string, args ...any) {
	r.emit(Warning, level, fmt.Sprintf(format, args...))
}

// Errorf emits an error-severity message, counts it against the error
// threshold, and sets Aborted once the threshold is exceeded.
func (r *Reporter) Errorf(level int, format string, args ...any) {
	r.emit(Error, level, fmt.Sprintf(format, args...))
	r.errorCount++
	if r.maxErrors > 0 && r.errorCount > r.maxErrors {
		r.aborted = true
	}
}

// Fatalf emits a fatal-severity message and marks the reporter aborted.
func (r *Reporter) Fatalf(level int, format string, args ...any) {
	r.emit(Fatal, level, fmt.Sprintf(format, args...))
	r.aborted = true
}

func (r *Reporter) emit(sev Severity, level int, text string) {
	m := Message{Severity: sev, Level: level, Text: text}
	r.messages = append(r.messages, m)
	if sev == Debug && level > r.verbosity {
		return
	}
	r.sink.Emit(m)
}

// Messages returns every message recorded so far, in emission order.
func (r *Reporter) Messages() []Message {
	return append([]Message(nil), r.messages...)
}

// ErrorCount returns the number of Error-severity messages emitted.
func (r *Reporter) ErrorCount() int {
	return r.errorCount
}

// Aborted reports whether a fatal message was emitted or the error
// threshold was exceeded.
func (r *Reporter) Aborted() bool {
	return r.aborted
}
