package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func TestAddVirtualNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("a\r\nb\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
	if got := f.LineCount(); got != 2 {
		t.Fatalf("LineCount = %d, want 2", got)
	}
}

func TestLineSpanAndGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.log", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.line); got != tc.want {
			t.Errorf("GetLine(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}
	if got := f.LineCount(); got != 3 {
		t.Fatalf("LineCount = %d, want 3", got)
	}

	sp := f.LineSpan(2)
	if f.Text(sp) != "second" {
		t.Fatalf("Text(LineSpan(2)) = %q", f.Text(sp))
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.log", []byte("ab\ncdef\n"))
	start, end := fs.Resolve(Span{File: id, Start: 4, End: 6})
	if start.Line != 2 || start.Col != 2 {
		t.Fatalf("start = %+v, want 2:2", start)
	}
	if end.Line != 2 || end.Col != 4 {
		t.Fatalf("end = %+v, want 2:4", end)
	}
}

func TestLoadDecompresses(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("123 1.5 getpid() = 123\n")

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	zst := enc.EncodeAll(payload, nil)
	_ = enc.Close()

	files := map[string][]byte{
		"plain.log":     payload,
		"trace.log.gz":  gz.Bytes(),
		"trace.log.zst": zst,
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		fs := NewFileSet()
		id, err := fs.Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		f := fs.Get(id)
		if !bytes.Equal(f.Content, payload) {
			t.Fatalf("%s: content = %q", name, f.Content)
		}
		if name != "plain.log" && f.Flags&FileDecompressed == 0 {
			t.Fatalf("%s: expected FileDecompressed flag", name)
		}
	}
}

func TestLoadRejectsFakeCompressedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.zst")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileSet().Load(path); err == nil {
		t.Fatalf("expected error for uncompressed .zst file")
	}
}

func TestLoadReaderDecompressesStdin(t *testing.T) {
	payload := []byte("1.0 getpid() = 1\r\n")
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(payload)
	_ = zw.Close()

	fs := NewFileSet()
	id, err := fs.LoadReader("<stdin>", &gz)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "1.0 getpid() = 1\n" {
		t.Fatalf("content = %q", f.Content)
	}
	want := FileVirtual | FileDecompressed | FileNormalizedCRLF
	if f.Flags != want {
		t.Fatalf("flags = %b, want %b", f.Flags, want)
	}
}

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	c := a.Cover(b)
	if c.Start != 5 || c.End != 20 {
		t.Fatalf("Cover = %v", c)
	}
	if !c.Contains(a) || !c.Contains(b) {
		t.Fatalf("cover must contain both inputs")
	}
	other := Span{File: 2, Start: 0, End: 1}
	if a.Cover(other) != a {
		t.Fatalf("spans from different files must not merge")
	}
}

func TestFormatPath(t *testing.T) {
	fs := NewFileSet()
	fs.SetBaseDir("/home/user/project")
	id := fs.Add("/home/user/project/logs/app.strace", []byte("x\n"), 0)
	long := fs.Add("/very/long/absolute/path/to/some/nested/directory/app.strace", nil, 0)
	virt := fs.AddVirtual("<stdin>", nil)

	cases := []struct {
		id   FileID
		mode string
		want string
	}{
		{id, "relative", "logs/app.strace"},
		{id, "basename", "app.strace"},
		{id, "absolute", "/home/user/project/logs/app.strace"},
		{long, "auto", "app.strace"},
		{virt, "relative", "<stdin>"},
		{virt, "absolute", "<stdin>"},
	}
	for _, tc := range cases {
		if got := fs.Get(tc.id).FormatPath(tc.mode, fs.BaseDir()); got != tc.want {
			t.Errorf("FormatPath(%s) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}
