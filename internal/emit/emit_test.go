package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"stracejson/internal/diag"
	"stracejson/internal/model"
	"stracejson/internal/parser"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/trace"
	"stracejson/internal/transform"
)

var zero source.Span

func parseLog(t *testing.T, text string) *syntax.Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.strace", []byte(text))
	bag := diag.NewBag(10)
	res := parser.ParseFile(fs, id, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse failed with %d diagnostics", bag.Len())
	}
	return res.Root
}

func numberedLog(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "%d 1.%06d getpid() = %d\n", 100+i, i, i)
	}
	return sb.String()
}

func TestEmitOrderIndependentOfJobs(t *testing.T) {
	root := parseLog(t, numberedLog(300))
	for _, jobs := range []int{0, 1, 2, 7, 64} {
		t.Run("jobs="+strconv.Itoa(jobs), func(t *testing.T) {
			lines, err := Emit(context.Background(), root, Options{Jobs: jobs})
			if err != nil {
				t.Fatalf("Emit: %v", err)
			}
			if len(lines) != 300 {
				t.Fatalf("got %d lines", len(lines))
			}
			for i, l := range lines {
				rec, ok := l.(*model.SyscallRecord)
				if !ok {
					t.Fatalf("line %d is %T", i, l)
				}
				if *rec.Result != strconv.Itoa(i) || *rec.Pid != uint32(100+i) {
					t.Fatalf("line %d out of order: result=%s pid=%d", i, *rec.Result, *rec.Pid)
				}
			}
		})
	}
}

func badLine() *syntax.Node {
	return syntax.NewNode(syntax.KindLine, zero,
		syntax.Tok(syntax.TokTimestamp, "1.0", zero),
		syntax.Sub(syntax.NewNode(syntax.KindArgs, zero)),
	)
}

func malformedLine() *syntax.Node {
	return syntax.NewNode(syntax.KindLine, zero,
		syntax.Sub(syntax.NewNode(syntax.KindAlert, zero)),
	)
}

func TestEmitReportsLowestIndexError(t *testing.T) {
	good := parseLog(t, numberedLog(20))
	root := syntax.NewNode(syntax.KindLog, zero)
	for i, ch := range good.Children {
		switch i {
		case 3:
			root.Append(syntax.Sub(badLine()))
		case 7, 15:
			root.Append(syntax.Sub(malformedLine()))
		default:
			root.Append(ch)
		}
	}
	for _, jobs := range []int{1, 4, 32} {
		for range 5 {
			lines, err := Emit(context.Background(), root, Options{Jobs: jobs})
			if lines != nil {
				t.Fatalf("jobs=%d: records returned alongside an error", jobs)
			}
			var ce *transform.ClassificationError
			if !errors.As(err, &ce) {
				t.Fatalf("jobs=%d: expected ClassificationError, got %v", jobs, err)
			}
			if ce.Line != 3 || !strings.HasPrefix(err.Error(), "record 3: ") {
				t.Fatalf("jobs=%d: got %v", jobs, err)
			}
		}
	}
}

func TestEmitShapeErrorAfterGoodLines(t *testing.T) {
	root := parseLog(t, numberedLog(4))
	root.Append(syntax.Sub(malformedLine()))
	_, err := Emit(context.Background(), root, Options{Jobs: 2})
	var se *transform.ShapeError
	if !errors.As(err, &se) || !strings.HasPrefix(err.Error(), "record 4: ") {
		t.Fatalf("expected ShapeError on line 4, got %v", err)
	}
}

func TestEmitRejectsBadRoot(t *testing.T) {
	cases := map[string]*syntax.Node{
		"nil":      nil,
		"line":     badLine(),
		"token":    syntax.NewNode(syntax.KindLog, zero, syntax.Tok(syntax.TokText, "x", zero)),
		"not line": syntax.NewNode(syntax.KindLog, zero, syntax.Sub(syntax.NewNode(syntax.KindArgs, zero))),
	}
	for name, root := range cases {
		_, err := Emit(context.Background(), root, Options{})
		var se *transform.ShapeError
		if !errors.As(err, &se) {
			t.Errorf("%s: expected ShapeError, got %v", name, err)
		}
	}
}

func TestEmitEmptyLog(t *testing.T) {
	lines, err := Emit(context.Background(), syntax.NewNode(syntax.KindLog, zero), Options{})
	if err != nil || lines == nil || len(lines) != 0 {
		t.Fatalf("got %v, %v", lines, err)
	}
}

func TestEmitHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, jobs := range []int{1, 4} {
		if _, err := Emit(ctx, parseLog(t, numberedLog(10)), Options{Jobs: jobs}); !errors.Is(err, context.Canceled) {
			t.Fatalf("jobs=%d: expected context.Canceled, got %v", jobs, err)
		}
	}
}

func TestEmitTracesLines(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := Emit(ctx, parseLog(t, numberedLog(3)), Options{Jobs: 1}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var begins, ends int
	for _, ev := range ring.Snapshot() {
		if ev.Scope != trace.ScopeLine {
			continue
		}
		switch ev.Kind {
		case trace.KindSpanBegin:
			begins++
		case trace.KindSpanEnd:
			ends++
			if ev.Detail != "syscall" {
				t.Errorf("span detail = %q", ev.Detail)
			}
		}
	}
	if begins != 3 || ends != 3 {
		t.Fatalf("line spans: %d begins, %d ends", begins, ends)
	}
}

func alertLines(t *testing.T) []model.TraceLine {
	t.Helper()
	lines, err := Emit(context.Background(), parseLog(t, "1.0 +++ exited with 0 +++\n42 2.5 <... read resumed>\"a<b>&\", 3) = 3\n"), Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return lines
}

func TestEncodeJSON(t *testing.T) {
	lines := alertLines(t)
	var buf bytes.Buffer
	if err := Encode(&buf, lines, FormatJSON, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `[{"type":"alert","timestamp":1,"message":"exited with 0"},` +
		`{"type":"syscall","timestamp":2.5,"pid":42,"name":"read","status":"resumed","args":["a<b>&","3"],"result":"3"}]` + "\n"
	if buf.String() != want {
		t.Fatalf("got  %s\nwant %s", buf.String(), want)
	}

	buf.Reset()
	if err := Encode(&buf, lines[:1], FormatJSON, 2); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want = "[\n  {\n    \"type\": \"alert\",\n    \"timestamp\": 1,\n    \"message\": \"exited with 0\"\n  }\n]\n"
	if buf.String() != want {
		t.Fatalf("indented:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil, FormatJSON, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestEncodeNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, alertLines(t), FormatNDJSON, 4); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows: %q", len(rows), buf.String())
	}
	if rows[0] != `{"type":"alert","timestamp":1,"message":"exited with 0"}` {
		t.Fatalf("row 0 = %s", rows[0])
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, alertLines(t), FormatYAML, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"- type: alert\n", "  timestamp: 1.0\n", "  message: exited with 0\n", "  pid: 42\n", "  status: resumed\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output misses %q:\n%s", want, out)
		}
	}
}

func TestEncodeMsgpack(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, alertLines(t), FormatMsgpack, 0); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded []map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["type"] != "alert" || decoded[1]["name"] != "read" {
		t.Fatalf("decoded %v", decoded)
	}
	if _, ok := decoded[0]["pid"]; ok {
		t.Fatalf("absent pid must be omitted: %v", decoded[0])
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("xml must be rejected")
	}
	if err := Encode(&bytes.Buffer{}, nil, Format("xml"), 0); err == nil {
		t.Fatalf("Encode must reject unknown formats")
	}
}
