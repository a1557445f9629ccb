package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stracejson/internal/config"
	"stracejson/internal/driver"
	"stracejson/internal/emit"
)

const cacheApp = "stracejson"

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [flags] [file|-]",
		Short: "Convert a strace log into trace records",
		Long: `Convert reads a strace log (plain, .gz or .zst; "-" or nothing for stdin)
and writes one typed record per line. Syntax errors stop the conversion
before anything is written; with --keep-going the broken lines are
reported and left out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args)
		},
	}
	f := cmd.Flags()
	f.String("format", "", "output format (json|ndjson|yaml|msgpack)")
	f.Int("indent", 0, "JSON indentation width (0 = compact)")
	f.Int("jobs", 0, "parallel conversion workers (0 = GOMAXPROCS)")
	f.StringP("output", "o", "", "write records to this file instead of stdout")
	f.String("input", "", "input kind (text|tree)")
	f.Bool("keep-going", false, "convert the lines that parsed even if others had syntax errors")
	f.Bool("cache", false, "reuse converted output from the on-disk cache")
	f.String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/stracejson)")
	return cmd
}

// applyConvertFlags overrides config values with the convert flags the
// user actually set.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	if f.Changed("format") {
		if cfg.Output.Format, err = f.GetString("format"); err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if f.Changed("indent") {
		if cfg.Output.Indent, err = f.GetInt("indent"); err != nil {
			return fmt.Errorf("failed to get indent flag: %w", err)
		}
	}
	if err := applyInputFlags(cmd, cfg); err != nil {
		return err
	}
	if f.Changed("keep-going") {
		if cfg.Convert.KeepGoing, err = f.GetBool("keep-going"); err != nil {
			return fmt.Errorf("failed to get keep-going flag: %w", err)
		}
	}
	if f.Changed("cache") {
		if cfg.Cache.Enabled, err = f.GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if f.Changed("cache-dir") {
		if cfg.Cache.Dir, err = f.GetString("cache-dir"); err != nil {
			return fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
	}
	return cfg.Validate()
}

// applyInputFlags handles --input and --jobs, shared by convert and check.
func applyInputFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	if f.Lookup("input") != nil && f.Changed("input") {
		if cfg.Convert.Input, err = f.GetString("input"); err != nil {
			return fmt.Errorf("failed to get input flag: %w", err)
		}
	}
	if f.Lookup("jobs") != nil && f.Changed("jobs") {
		if cfg.Convert.Jobs, err = f.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	return nil
}

func inputPath(args []string) string {
	if len(args) == 0 {
		return driver.StdinPath
	}
	return args[0]
}

func (a *app) runConvert(cmd *cobra.Command, args []string) (err error) {
	cfg := a.cfg
	if err := applyConvertFlags(cmd, &cfg); err != nil {
		return err
	}
	format, err := emit.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	input, err := driver.ParseInput(cfg.Convert.Input)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	} else if format.Binary() && isTerminal(out) {
		return fmt.Errorf("refusing to write %s to a terminal; use --output", format)
	}

	var cache *driver.DiskCache
	if cfg.Cache.Enabled {
		cache, err = driver.OpenDiskCache(cacheApp, cfg.Cache.Dir)
		if err != nil {
			// без кеша всё равно можно работать
			fmt.Fprintf(a.stderr, "cache disabled: %v\n", err)
			cache = nil
		}
	}

	res, err := driver.Convert(cmd.Context(), inputPath(args), out, driver.Env{Stdin: cmd.InOrStdin(), Warn: a.stderr}, driver.ConvertOptions{
		Input:          input,
		Jobs:           cfg.Convert.Jobs,
		MaxDiagnostics: cfg.Convert.MaxDiagnostics,
		Format:         format,
		Indent:         cfg.Output.Indent,
		Cache:          cache,
		EnableTimings:  a.timings,
		KeepGoing:      cfg.Convert.KeepGoing,
	})
	if res != nil && res.Parse != nil {
		a.reportDiagnostics(res.Parse.Bag, res.Parse.FileSet)
	}
	if err != nil {
		return err
	}
	if a.timings && res.Timings != nil {
		printTimings(a.stderr, res.Timings)
	}
	if !a.quiet && res.CacheHit {
		fmt.Fprintf(a.stderr, "%d records (cached)\n", res.Records)
	}
	return nil
}
