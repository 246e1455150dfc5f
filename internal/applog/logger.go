// Package applog provides dual-sink progress logging for the optimizer:
// a human-readable console stream and a structured JSONL stream for later
// analysis, modeled on keycraft's internal/keycraft/bls_logger.go.
package applog

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Logger writes LogEvents to a console writer (human-readable) and/or a
// file writer (JSONL). Either may be nil to disable that channel.
type Logger struct {
	console   io.Writer
	file      io.Writer
	startTime time.Time
}

// New creates a Logger. Pass nil for either writer to disable that channel.
func New(console, file io.Writer) *Logger {
	return &Logger{console: console, file: file, startTime: time.Now()}
}

// Event is one structured log entry, covering the events the orchestrator
// and separator master emit: strike boundaries, width changes, swaps,
// and final reports.
type Event struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMs int64     `json:"elapsed_ms"`

	Strike    *int     `json:"strike,omitempty"`
	Iteration *int     `json:"iteration,omitempty"`
	Overlap   *float64 `json:"overlap,omitempty"`
	WOverlap  *float64 `json:"weighted_overlap,omitempty"`
	MinOvlap  *float64 `json:"min_overlap,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Usage     *float64 `json:"usage,omitempty"`
	Moves     *int     `json:"moves,omitempty"`

	Message string `json:"message,omitempty"`
}

// Log records ev on both configured sinks.
func (l *Logger) Log(ev Event) {
	if l == nil {
		return
	}
	ev.Timestamp = time.Now()
	ev.ElapsedMs = ev.Timestamp.Sub(l.startTime).Milliseconds()

	if l.console != nil {
		fmt.Fprintf(l.console, "[%6dms] %-12s %s\n", ev.ElapsedMs, ev.Event, ev.Message)
	}
	if l.file != nil {
		if data, err := json.Marshal(ev); err == nil {
			fmt.Fprintln(l.file, string(data))
		}
	}
}

// Infof logs a free-form message under the "info" event name.
func (l *Logger) Infof(format string, args ...any) {
	l.Log(Event{Event: "info", Message: fmt.Sprintf(format, args...)})
}
