package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stracejson/internal/diag"
	"stracejson/internal/driver"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file|-]",
		Short: "Report problems in a strace log without converting it",
		Long: `Check parses a log, runs the record transform and prints the diagnostics.
It exits with status 1 when any error is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args)
		},
	}
	f := cmd.Flags()
	f.String("format", "pretty", "diagnostics format (pretty|json|sarif)")
	f.String("input", "", "input kind (text|tree)")
	f.Int("jobs", 0, "parallel conversion workers (0 = GOMAXPROCS)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.Bool("fullpath", false, "print absolute paths")
	f.Bool("warnings-as-errors", false, "fail on warnings too")
	f.String("min-severity", "info", "lowest severity to print (info|warning|error)")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	format, err := f.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := validDiagFormat(format); err != nil {
		return err
	}
	withNotes, err := f.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := f.GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	strict, err := f.GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	minSevFlag, err := f.GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSev, err := diag.ParseSeverity(minSevFlag)
	if err != nil {
		return err
	}

	cfg := a.cfg
	if err := applyInputFlags(cmd, &cfg); err != nil {
		return err
	}
	input, err := driver.ParseInput(cfg.Convert.Input)
	if err != nil {
		return err
	}

	res, err := driver.Check(cmd.Context(), inputPath(args), driver.Env{Stdin: cmd.InOrStdin()},
		driver.ParseOptions{Input: input, MaxDiagnostics: cfg.Convert.MaxDiagnostics}, cfg.Convert.Jobs)
	if res == nil {
		return err
	}

	bag := res.Parse.Bag
	opts := diagOptions{format: format, withNotes: withNotes, fullPath: fullPath, minSeverity: minSev, args: os.Args[1:]}
	if werr := a.writeDiagnostics(cmd.OutOrStdout(), bag, res.Parse.FileSet, opts); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	if bag.HasErrors() || (strict && bag.HasWarnings()) {
		return errReported
	}
	if format == "pretty" && !a.quiet {
		fmt.Fprintf(a.stderr, "%s: %d lines, %d records, %d diagnostics\n",
			res.Parse.File.Path, res.Parse.Lines, res.Records, bag.Len())
	}
	return nil
}
