package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StorageMode says where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // last N kept in memory, dumped on failure
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "unknown"
}

func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == want {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks one from OutputPath
	Output     io.Writer // overrides OutputPath
	OutputPath string    // "-" or "" means Stderr
	Stderr     io.Writer // nil means os.Stderr
	RingSize   int
	Heartbeat  time.Duration // 0 disables
}

// New builds a tracer for cfg. The heartbeat is not started; see Open.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatFor(cfg.OutputPath)
	}

	if cfg.Mode == ModeRing {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, format)
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		w := cfg.Stderr
		if w == nil {
			w = os.Stderr
		}
		// без Close: stderr закрывать нельзя
		return struct{ io.Writer }{w}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// Session is a tracer together with its heartbeat.
type Session struct {
	Tracer    Tracer
	heartbeat *Heartbeat
}

// Open builds the tracer and starts the heartbeat if cfg asks for one.
func Open(cfg Config) (*Session, error) {
	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{Tracer: t, heartbeat: StartHeartbeat(t, cfg.Heartbeat)}, nil
}

// Close stops the heartbeat, then flushes and closes the tracer.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.heartbeat.Stop()
	return errors.Join(s.Tracer.Flush(), s.Tracer.Close())
}
