package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stracejson/internal/diagfmt"
	"stracejson/internal/driver"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] [file|-]",
		Short: "Print the syntax tree of a strace log",
		Long: `Parse prints the syntax tree the converter works on. The json form is the
same document "convert --input tree" reads back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("input", "", "input kind (text|tree)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	cfg := a.cfg
	if err := applyInputFlags(cmd, &cfg); err != nil {
		return err
	}
	input, err := driver.ParseInput(cfg.Convert.Input)
	if err != nil {
		return err
	}

	res, err := driver.ParsePath(cmd.Context(), inputPath(args), driver.Env{Stdin: cmd.InOrStdin()}, driver.ParseOptions{
		Input:          input,
		MaxDiagnostics: cfg.Convert.MaxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	a.reportDiagnostics(res.Bag, res.FileSet)
	if res.Root == nil {
		return errReported
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatTreeJSON(out, res.Root)
	}
	return diagfmt.FormatTreePretty(out, res.Root, res.FileSet)
}
