package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stracejson/internal/version"
)

// errReported means the failure was already shown as diagnostics.
var errReported = errors.New("errors reported")

// newRootCmd builds the command tree. State shared between the persistent
// hooks and the subcommands lives in app.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stracejson",
		Short: "Convert strace logs into typed JSON trace records",
		Long: `stracejson parses strace output (or a syntax tree dumped by another
grammar) and emits one typed record per line: syscalls, signals and exit alerts.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newTokenizeCmd(a))
	rootCmd.AddCommand(newCacheCmd(a))
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd(a))

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to stracejson.toml (default: nearest one above the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.String("trace", "", "trace output file (- for stderr; .ndjson and .json pick the format)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in the trace ring")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	return rootCmd
}

// main builds the command tree and runs it; any error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{stderr: os.Stderr}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()

	if err != nil {
		a.dumpTrace(os.Stderr)
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}
