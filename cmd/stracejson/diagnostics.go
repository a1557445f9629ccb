package main

import (
	"fmt"
	"io"

	"stracejson/internal/diag"
	"stracejson/internal/diagfmt"
	"stracejson/internal/source"
)

type diagOptions struct {
	format      string // pretty | json | sarif
	withNotes   bool
	fullPath    bool
	minSeverity diag.Severity
	args        []string
}

func validDiagFormat(format string) error {
	switch format {
	case "pretty", "json", "sarif":
		return nil
	}
	return fmt.Errorf("unknown diagnostics format %q (expected: pretty|json|sarif)", format)
}

// writeDiagnostics renders bag to w in the chosen format.
func (a *app) writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts diagOptions) error {
	// тайминги печатаются отдельно
	bag = bag.Filter(func(d diag.Diagnostic) bool {
		return d.Code != diag.ObsTimings && d.Severity >= opts.minSeverity
	})
	bag.Sort()
	bag.Dedup()

	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch opts.format {
	case "", "pretty":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     a.color,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: opts.withNotes,
		})
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "stracejson",
			ToolVersion:    versionString(),
			InvocationArgs: opts.args,
		})
	}
	return validDiagFormat(opts.format)
}

// reportDiagnostics prints warnings and errors to stderr unless --quiet.
func (a *app) reportDiagnostics(bag *diag.Bag, fs *source.FileSet) {
	if a.quiet || bag == nil || (!bag.HasErrors() && !bag.HasWarnings()) {
		return
	}
	_ = a.writeDiagnostics(a.stderr, bag, fs, diagOptions{format: "pretty", minSeverity: diag.SevWarning})
}
