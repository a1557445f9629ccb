package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, FileName), "")

	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v, found=%v", err, ok)
	}
	if path != filepath.Join(root, FileName) {
		t.Fatalf("path = %s", path)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	// t.TempDir lives under the system temp dir, which carries no config
	cfg, path, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if path != "" && !strings.HasSuffix(path, FileName) {
		t.Fatalf("path = %q", path)
	}
	if path == "" && cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
[convert]
jobs = 4

[output]
format = "ndjson"

[trace]
heartbeat = "2s"

[cache]
enabled = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Convert.Jobs != 4 || cfg.Convert.Input != InputText || cfg.Convert.MaxDiagnostics != 100 {
		t.Fatalf("convert = %+v", cfg.Convert)
	}
	if cfg.Output.Format != "ndjson" || !cfg.Cache.Enabled || cfg.Trace.RingSize != 4096 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if d, err := cfg.HeartbeatInterval(); err != nil || d != 2*time.Second {
		t.Fatalf("heartbeat = %v, %v", d, err)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[output]\ncolour = true\n",
		"bad format":   "[output]\nformat = \"xml\"\n",
		"empty format": "[output]\nformat = \"\"\n",
		"bad input":    "[convert]\ninput = \"binary\"\n",
		"neg jobs":     "[convert]\njobs = -1\n",
		"bad level":    "[trace]\nlevel = \"loud\"\n",
		"bad duration": "[trace]\nheartbeat = \"soon\"\n",
		"bad toml":     "[output\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(Default())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, string(data))
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v\n%s", err, data)
	}
	if cfg != Default() {
		t.Fatalf("round trip changed config: %+v", cfg)
	}
}
