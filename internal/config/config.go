// Package config loads stracejson.toml, the optional per-directory
// defaults for the CLI. Flags given on the command line win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"stracejson/internal/emit"
	"stracejson/internal/trace"
)

// FileName is the name looked up by Find.
const FileName = "stracejson.toml"

// Config mirrors stracejson.toml.
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Output  OutputConfig  `toml:"output"`
	Trace   TraceConfig   `toml:"trace"`
	Cache   CacheConfig   `toml:"cache"`
}

type ConvertConfig struct {
	Input          string `toml:"input"` // text | tree
	Jobs           int    `toml:"jobs"`  // 0 = GOMAXPROCS
	MaxDiagnostics int    `toml:"max_diagnostics"`
	KeepGoing      bool   `toml:"keep_going"` // convert despite syntax errors
}

type OutputConfig struct {
	Format string `toml:"format"`
	Indent int    `toml:"indent"`
}

type TraceConfig struct {
	Level     string `toml:"level"`
	Mode      string `toml:"mode"`
	Output    string `toml:"output"`
	RingSize  int    `toml:"ring_size"`
	Heartbeat string `toml:"heartbeat"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty = $XDG_CACHE_HOME/stracejson
}

// Input kinds accepted by convert.
const (
	InputText = "text"
	InputTree = "tree"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Convert: ConvertConfig{Input: InputText, MaxDiagnostics: 100},
		Output:  OutputConfig{Format: string(emit.FormatJSON)},
		Trace:   TraceConfig{Level: "off", Mode: "ring", RingSize: 4096, Heartbeat: "0s"},
	}
}

// HeartbeatInterval parses Trace.Heartbeat; empty means disabled.
func (c Config) HeartbeatInterval() (time.Duration, error) {
	if strings.TrimSpace(c.Trace.Heartbeat) == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Trace.Heartbeat)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	switch c.Convert.Input {
	case InputText, InputTree:
	default:
		errs = append(errs, fmt.Errorf("[convert].input: %q is not text or tree", c.Convert.Input))
	}
	if c.Convert.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[convert].jobs: must not be negative"))
	}
	if c.Convert.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[convert].max_diagnostics: must not be negative"))
	}
	if _, err := emit.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("[output].format: %w", err))
	}
	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		errs = append(errs, fmt.Errorf("[output].indent: %d is out of range 0..16", c.Output.Indent))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("[trace].level: %w", err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("[trace].mode: %w", err))
	}
	if c.Trace.RingSize < 0 {
		errs = append(errs, fmt.Errorf("[trace].ring_size: must not be negative"))
	}
	if d, err := c.HeartbeatInterval(); err != nil || d < 0 {
		errs = append(errs, fmt.Errorf("[trace].heartbeat: %q is not a duration", c.Trace.Heartbeat))
	}
	return errors.Join(errs...)
}

// Find walks up from startDir to locate stracejson.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over the defaults. Keys the file leaves out keep their
// default; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	// пустая строка вместо пропущенного значения почти всегда опечатка
	if meta.IsDefined("output", "format") && strings.TrimSpace(cfg.Output.Format) == "" {
		return Config{}, fmt.Errorf("%s: [output].format is empty", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the nearest stracejson.toml above startDir.
// Without one it returns the defaults and an empty path.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Encode renders cfg as TOML, the form written by `stracejson init`.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# stracejson defaults; command-line flags take precedence\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
