package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(load, "app.strace")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "app.strace" {
		t.Fatalf("phase 0 = %+v", r.Phases[0])
	}
	if r.Phases[0].DurationMS < 1 {
		t.Fatalf("load took %.3f ms, expected at least 1", r.Phases[0].DurationMS)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %.3f < load %.3f", r.TotalMS, r.Phases[0].DurationMS)
	}

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(rows) != 3 || !strings.HasSuffix(rows[0], "(app.strace)") || !strings.HasPrefix(rows[2], "total") {
		t.Fatalf("text:\n%s", buf.String())
	}
}

func TestNilTimerRecordsNothing(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("load")
	tm.End(idx, "x")
	if idx != -1 {
		t.Fatalf("Begin on nil = %d", idx)
	}
	if r := tm.Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("nil report = %+v", r)
	}
	if r := NewTimer().Report(); len(r.Phases) != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
