package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TraceFile is the name of the JSONL file written by Tracer.
const TraceFile = "trace.jsonl"

// Event is a record that can be written to a run trace.
type Event interface {
	EventName() string
}

// RunStarted is recorded once the walks are placed.
type RunStarted struct {
	Rows            int    `json:"rows"`
	Columns         int    `json:"columns"`
	Walks           int    `json:"walks"`
	AllowCollisions bool   `json:"allow_collisions"`
	Seed            int64  `json:"seed"`
	Trigger         string `json:"trigger"`
}

// Tick holds the positions after one step. Finished walks are nil.
type Tick struct {
	Step  int       `json:"step"`
	Cells []*[2]int `json:"cells"`
}

// WalkFinished is recorded the first time a walk reports it has finished.
type WalkFinished struct {
	Walk int `json:"walk"`
	Step int `json:"step"`
}

// RunFinished is recorded when the driver stops.
type RunFinished struct {
	Reason   string `json:"reason"`
	Steps    int    `json:"steps"`
	Finished int    `json:"finished"`
	Occupied int    `json:"occupied"`
}

func (RunStarted) EventName() string   { return "run_started" }
func (Tick) EventName() string         { return "tick" }
func (WalkFinished) EventName() string { return "walk_finished" }
func (RunFinished) EventName() string  { return "run_finished" }

// traceLine is one JSONL line: the envelope plus the event payload.
type traceLine struct {
	Time  time.Time `json:"time"`
	RunID string    `json:"run_id"`
	Event string    `json:"event"`
	Data  Event     `json:"data"`
}

// Tracer appends the events of one run to <dir>/trace.jsonl. Lines are
// buffered until Close. Tick events are kept only at trace level.
//
// A nil *Tracer discards everything, so callers need no level checks.
type Tracer struct {
	mu    sync.Mutex
	file  *os.File
	buf   *bufio.Writer
	enc   *json.Encoder
	runID string
	ticks bool
	err   error
}

// OpenTracer opens dir/trace.jsonl for append, creating dir if needed.
// At info level it returns a nil Tracer and touches nothing.
func OpenTracer(dir, level, runID string) (*Tracer, error) {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating trace dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, TraceFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}

	buf := bufio.NewWriter(f)
	return &Tracer{
		file:  f,
		buf:   buf,
		enc:   json.NewEncoder(buf),
		runID: runID,
		ticks: lvl <= LevelTrace,
	}, nil
}

// TracesTicks reports whether Tick events will be kept.
func (t *Tracer) TracesTicks() bool {
	return t != nil && t.ticks
}

// Record writes ev. After the first write error, later records are
// dropped and Close reports that error.
func (t *Tracer) Record(ev Event) {
	if t == nil {
		return
	}
	if _, isTick := ev.(Tick); isTick && !t.ticks {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil || t.file == nil {
		return
	}
	t.err = t.enc.Encode(traceLine{
		Time:  time.Now().UTC(),
		RunID: t.runID,
		Event: ev.EventName(),
		Data:  ev,
	})
}

// Close flushes buffered records and closes the file.
func (t *Tracer) Close() error {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return t.err
	}
	if err := t.buf.Flush(); err != nil && t.err == nil {
		t.err = err
	}
	if err := t.file.Close(); err != nil && t.err == nil {
		t.err = err
	}
	t.file = nil
	return t.err
}
