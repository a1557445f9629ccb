package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stracejson/internal/config"
	"stracejson/internal/prof"
	"stracejson/internal/trace"
)

// app holds what the persistent hooks resolve once per run.
type app struct {
	stderr io.Writer

	cfg     config.Config
	color   bool
	quiet   bool
	timings bool

	tracer  trace.Tracer
	cleanup func()
	prof    *prof.Session
}

// annotationNoConfig marks commands that must work even with a broken
// stracejson.toml around.
const annotationNoConfig = "stracejson/noconfig"

func (a *app) setup(cmd *cobra.Command) error {
	root := cmd.Root()
	cfg, path := config.Default(), ""
	if cmd.Annotations[annotationNoConfig] == "" {
		var err error
		if cfg, path, err = loadConfig(root); err != nil {
			return err
		}
	}
	if err := applyGlobalFlags(root, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	a.cfg = cfg

	colorFlag, err := root.PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		a.color = true
	case "off":
		a.color = false
	case "auto":
		a.color = isTerminal(a.stderr)
	default:
		return fmt.Errorf("invalid --color value %q (expected: auto|on|off)", colorFlag)
	}

	if a.quiet, err = root.PersistentFlags().GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if a.timings, err = root.PersistentFlags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	tracer, cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	a.tracer, a.cleanup = tracer, cleanup
	if path != "" {
		trace.Point(tracer, trace.ScopeDriver, "config", path, 0)
	}
	return a.setupProfiling(root)
}

func (a *app) setupProfiling(root *cobra.Command) error {
	var p prof.Paths
	pf := root.PersistentFlags()
	for name, dst := range map[string]*string{"cpu-profile": &p.CPU, "mem-profile": &p.Mem, "runtime-trace": &p.Trace} {
		v, err := pf.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !p.Any() {
		return nil
	}
	s, err := prof.Start(p)
	if err != nil {
		return err
	}
	a.prof = s
	return nil
}

// loadConfig reads --config, or discovers stracejson.toml from the working
// directory upwards.
func loadConfig(root *cobra.Command) (config.Config, string, error) {
	path, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", err
	}
	return config.Discover(wd)
}

// applyGlobalFlags overrides config values with persistent flags the user
// actually set.
func applyGlobalFlags(root *cobra.Command, cfg *config.Config) error {
	pf := root.PersistentFlags()
	var err error
	if pf.Changed("max-diagnostics") {
		if cfg.Convert.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return err
		}
	}
	if pf.Changed("trace") {
		if cfg.Trace.Output, err = pf.GetString("trace"); err != nil {
			return err
		}
		// --trace без уровня включает phase
		if !pf.Changed("trace-level") && (cfg.Trace.Level == "" || cfg.Trace.Level == "off") {
			cfg.Trace.Level = "phase"
		}
	}
	if pf.Changed("trace-level") {
		if cfg.Trace.Level, err = pf.GetString("trace-level"); err != nil {
			return err
		}
	}
	if pf.Changed("trace-mode") {
		if cfg.Trace.Mode, err = pf.GetString("trace-mode"); err != nil {
			return err
		}
	} else if pf.Changed("trace") && cfg.Trace.Mode == "ring" {
		// файл для трассы без потока бесполезен
		cfg.Trace.Mode = "both"
	}
	if pf.Changed("trace-ring-size") {
		if cfg.Trace.RingSize, err = pf.GetInt("trace-ring-size"); err != nil {
			return err
		}
	}
	if pf.Changed("trace-heartbeat") {
		d, err := pf.GetDuration("trace-heartbeat")
		if err != nil {
			return err
		}
		cfg.Trace.Heartbeat = d.String()
	}
	return nil
}

// dumpTrace writes the ring buffer, if any, after a failed run.
func (a *app) dumpTrace(w io.Writer) {
	ring := trace.RingOf(a.tracer)
	if ring == nil {
		return
	}
	events := ring.Snapshot()
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(w, "trace: last %d events\n", len(events))
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

func (a *app) close() {
	if err := a.prof.Stop(); err != nil {
		fmt.Fprintf(a.stderr, "profile: %v\n", err)
	}
	a.prof = nil
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}
