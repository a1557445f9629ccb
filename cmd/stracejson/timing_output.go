package main

import (
	"fmt"
	"io"

	"stracejson/internal/observ"
)

func printTimings(out io.Writer, report *observ.Report) {
	if out == nil || report == nil || len(report.Phases) == 0 {
		return
	}
	if err := report.WriteText(out); err != nil {
		fmt.Fprintf(out, "timings: %v\n", err)
	}
}
