package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stracejson/internal/config"
	"stracejson/internal/trace"
)

// setupTracing opens a trace session for the merged [trace] settings and
// puts its tracer on the command context.
func setupTracing(cmd *cobra.Command, tc config.TraceConfig) (trace.Tracer, func(), error) {
	level, err := trace.ParseLevel(tc.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	mode, err := trace.ParseMode(tc.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	heartbeat, err := config.Config{Trace: tc}.HeartbeatInterval()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace heartbeat: %w", err)
	}

	session, err := trace.Open(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: tc.Output,
		Stderr:     cmd.ErrOrStderr(),
		RingSize:   tc.RingSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), session.Tracer))

	cleanup := func() {
		if err := session.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}
	return session.Tracer, cleanup, nil
}
