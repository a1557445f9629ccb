package parser

import (
	"strings"
	"testing"

	"stracejson/internal/diag"
	"stracejson/internal/source"
)

func TestParseLineShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"pid and epoch",
			`12345 1690000000.123456 open("/etc/passwd", O_RDONLY) = 3`,
			`(line pid:12345 timestamp:1690000000.123456 (syscall name:open (syscall_args (string string:"/etc/passwd") (c_expr expr:O_RDONLY)) result:3))`,
		},
		{
			"no args",
			`1.0 getpid() = 42`,
			`(line timestamp:1.0 (syscall name:getpid result:42))`,
		},
		{
			"errno result",
			`1.0 open("/nope", O_RDONLY) = -1 ENOENT (No such file or directory)`,
			`(line timestamp:1.0 (syscall name:open (syscall_args (string string:"/nope") (c_expr expr:O_RDONLY)) result:-1 ENOENT (No such file or directory)))`,
		},
		{
			"signal",
			`1.0 --- SIGCHLD {si_signo=SIGCHLD, si_code=CLD_EXITED, si_pid=42} ---`,
			`(line timestamp:1.0 (signal_line sig_name:SIGCHLD (braced (kv name:si_signo (c_expr expr:SIGCHLD)) (kv name:si_code (c_expr expr:CLD_EXITED)) (kv name:si_pid (c_expr expr:42)))))`,
		},
		{
			"exit alert",
			`1.0 +++ exited with 0 +++`,
			`(line timestamp:1.0 (alert_body text:exited text:with text:0))`,
		},
		{
			"stopped alert",
			`1.0 --- stopped by SIGSTOP ---`,
			`(line timestamp:1.0 (alert_body text:stopped text:by text:SIGSTOP))`,
		},
		{
			"unfinished",
			`[pid 7] 12:00:00.5 read(3, <unfinished ...>`,
			`(line pid:7 timestamp:12:00:00.5 (syscall_unfinished name:read (syscall_args (c_expr expr:3))))`,
		},
		{
			"unfinished without comma",
			`1.0 futex(0x1, FUTEX_WAIT, 2, NULL <unfinished ...>`,
			`(line timestamp:1.0 (syscall_unfinished name:futex (syscall_args (c_expr expr:0x1) (c_expr expr:FUTEX_WAIT) (c_expr expr:2) (c_expr expr:NULL))))`,
		},
		{
			"resumed with duration",
			`1.0 <... read resumed>"abc", 3) = 3 <0.000012>`,
			`(line timestamp:1.0 (resumed_line resumed:<... read resumed> (syscall_args (string string:"abc") (c_expr expr:3)) result:3 duration:0.000012))`,
		},
		{
			"resumed without args",
			`1.0 <... resumed>) = 0`,
			`(line timestamp:1.0 (resumed_line resumed:<... resumed> result:0))`,
		},
		{
			"sigsets",
			`1.0 rt_sigprocmask(SIG_SETMASK, ~[RTMIN RT_1], [CHLD], 8) = 0`,
			`(line timestamp:1.0 (syscall name:rt_sigprocmask (syscall_args (c_expr expr:SIG_SETMASK) (sigset negated:~ signal:RTMIN signal:RT_1) (sigset signal:CHLD) (c_expr expr:8)) result:0))`,
		},
		{
			"empty list and empty negated set",
			`1.0 f([], ~[]) = 0`,
			`(line timestamp:1.0 (syscall name:f (syscall_args (bracketed) (sigset negated:~)) result:0))`,
		},
		{
			"function-looking expression",
			`1.0 wait4(-1, [{WIFEXITED(s) && WEXITSTATUS(s) == 0}], 0, NULL) = 123`,
			`(line timestamp:1.0 (syscall name:wait4 (syscall_args (c_expr expr:-1) (bracketed (braced (c_expr expr:WIFEXITED(s) && WEXITSTATUS(s) == 0))) (c_expr expr:0) (c_expr expr:NULL)) result:123))`,
		},
		{
			"function",
			`1.0 mknod("/dev/x", S_IFCHR, makedev(0x1, 0x3)) = 0`,
			`(line timestamp:1.0 (syscall name:mknod (syscall_args (string string:"/dev/x") (c_expr expr:S_IFCHR) (function_like name:makedev (syscall_args (c_expr expr:0x1) (c_expr expr:0x3)))) result:0))`,
		},
		{
			"fd path and truncated struct",
			`1.0 fstat(3</etc/ld.so.cache>, {st_mode=S_IFREG|0644, st_size=1, ...}) = 0`,
			`(line timestamp:1.0 (syscall name:fstat (syscall_args (fd_path fd:3 path:/etc/ld.so.cache) (braced (kv name:st_mode (c_expr expr:S_IFREG|0644)) (kv name:st_size (c_expr expr:1)) ellipsis:...)) result:0))`,
		},
		{
			"flag struct cut short",
			`1.0 ioctl(1, TCGETS, {B38400 opost isig icanon echo ...}) = 0`,
			`(line timestamp:1.0 (syscall name:ioctl (syscall_args (c_expr expr:1) (c_expr expr:TCGETS) (braced (c_expr expr:B38400 opost isig icanon echo) ellipsis:...)) result:0))`,
		},
		{
			"key value in args",
			`1.0 clone(child_stack=NULL, flags=CLONE_VM) = 5`,
			`(line timestamp:1.0 (syscall name:clone (syscall_args (kv name:child_stack (c_expr expr:NULL)) (kv name:flags (c_expr expr:CLONE_VM))) result:5))`,
		},
		{
			"list and comment",
			`1.0 execve("/bin/ls", ["ls"], 0x7ffd /* 30 vars */) = 0`,
			`(line timestamp:1.0 (syscall name:execve (syscall_args (string string:"/bin/ls") (bracketed (string string:"ls")) (c_expr expr:0x7ffd /* 30 vars */)) result:0))`,
		},
		{
			"truncated string and ellipsis arg",
			`1.0 write(1, "hello"..., 4096, ...) = 4096`,
			`(line timestamp:1.0 (syscall name:write (syscall_args (c_expr expr:1) (string string:"hello"...) (c_expr expr:4096) (c_expr expr:...)) result:4096))`,
		},
		{
			"list of structs",
			`1.0 poll([{fd=3, events=POLLIN}], 1, 0) = 0 (Timeout)`,
			`(line timestamp:1.0 (syscall name:poll (syscall_args (bracketed (braced (kv name:fd (c_expr expr:3)) (kv name:events (c_expr expr:POLLIN)))) (c_expr expr:1) (c_expr expr:0)) result:0 (Timeout)))`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parseText(tc.in)
			if res.Bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(res.Bag))
			}
			if len(res.Root.Children) != 1 {
				t.Fatalf("expected 1 line, got %d", len(res.Root.Children))
			}
			if got := sexpr(res.Root.Children[0].Node); got != tc.want {
				t.Fatalf("tree mismatch\n got: %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestParseErrorsDropLine(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code diag.Code
	}{
		{"missing timestamp", `123 open() = 0`, diag.SynMissingTimestamp},
		{"unclosed call", `1.0 open("x" = 3`, diag.SynUnclosedDelimiter},
		{"missing result", `1.0 close(3)`, diag.SynMissingResult},
		{"trailing input", `1.0 close(3) = 0 <0.1> more`, diag.SynTrailingInput},
		{"bad pid", `[pid x] 1.0 getpid() = 1`, diag.SynBadPid},
		{"pid overflow", `99999999999 1.0 getpid() = 1`, diag.SynBadPid},
		{"bad timestamp", `1.0.0 getpid() = 1`, diag.SynBadTimestamp},
		{"bad clock", `25:00:00 getpid() = 1`, diag.SynBadTimestamp},
		{"unterminated string", `1.0 open("abc) = 3`, diag.LexUnterminatedString},
		{"nothing after timestamp", `1.0`, diag.SynUnrecognizedLine},
		{"broken signal", `1.0 --- SIGSEGV {si_signo=SIGSEGV ---`, diag.SynUnexpectedToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parseText(tc.in)
			if len(res.Root.Children) != 0 {
				t.Fatalf("line with errors must be left out of the tree")
			}
			if res.Skipped != 1 {
				t.Fatalf("Skipped = %d, want 1", res.Skipped)
			}
			if !hasCode(res.Bag, tc.code) {
				t.Fatalf("expected %s, got %s", tc.code.ID(), diagnosticsSummary(res.Bag))
			}
		})
	}
}

func TestUnrecognizedLineIsWarning(t *testing.T) {
	res := parseText("strace: Process 5 attached\n1.0 getpid() = 5\n")
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(res.Bag))
	}
	if !res.Bag.HasWarnings() || !hasCode(res.Bag, diag.SynUnrecognizedLine) {
		t.Fatalf("expected unrecognized-line warning, got %s", diagnosticsSummary(res.Bag))
	}
	if len(res.Root.Children) != 1 || res.Lines != 2 || res.Skipped != 1 {
		t.Fatalf("lines=%d skipped=%d children=%d", res.Lines, res.Skipped, len(res.Root.Children))
	}
}

func TestLinesAreIndependent(t *testing.T) {
	res := parseText("1.0 getpid() = 1\n1.0 close(3)\n\n2.0 getppid() = 1\n")
	if res.Lines != 3 || res.Skipped != 1 {
		t.Fatalf("lines=%d skipped=%d", res.Lines, res.Skipped)
	}
	if len(res.Root.Children) != 2 {
		t.Fatalf("expected 2 lines in tree, got %d", len(res.Root.Children))
	}
	if got := sexpr(res.Root.Children[1].Node); got != "(line timestamp:2.0 (syscall name:getppid result:1))" {
		t.Fatalf("second line: %s", got)
	}
}

func TestSpeculativeParseReportsOnce(t *testing.T) {
	res := parseText(`1.0 f({a=(1}, 2) = 0`)
	if n := res.Bag.Len(); n != 1 {
		t.Fatalf("expected exactly one diagnostic, got %s", diagnosticsSummary(res.Bag))
	}
}

func TestDeepNestingFallsBackToExpr(t *testing.T) {
	depth := maxNesting + 50
	in := "1.0 f(" + strings.Repeat("{", depth) + "a=1" + strings.Repeat("}", depth) + ") = 0"
	res := parseText(in)
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(res.Bag))
	}
	if len(res.Root.Children) != 1 {
		t.Fatalf("deeply nested line was dropped")
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	res := parseOpts(t, "1.0 close(3)\n1.0 close(4)\n1.0 close(5)\n", 2)
	if res.Bag.Len() != 2 {
		t.Fatalf("expected reporting to stop at 2, got %d", res.Bag.Len())
	}
	if res.Skipped != 3 {
		t.Fatalf("every broken line must still be skipped, got %d", res.Skipped)
	}
}

func TestResultBagThroughDedupReporter(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.strace", []byte("1.0 open(\"x\n"))
	bag := diag.NewBag(100)
	res := ParseFile(fs, id, Options{Reporter: diag.NewDedupReporter(&diag.BagReporter{Bag: bag})})
	if res.Bag != bag {
		t.Fatalf("Result.Bag does not see through the dedup reporter")
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected an error for the unterminated string")
	}
}

func TestUnclosedCallPointsAtOpenParen(t *testing.T) {
	res := parseText("1.0 close(3\n")
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnclosedDelimiter {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(res.Bag))
	}
	notes := items[0].Notes
	if len(notes) != 1 || notes[0].Msg != "opened here" {
		t.Fatalf("notes = %+v", notes)
	}
	if notes[0].Span.Start != 9 || notes[0].Span.End != 10 {
		t.Fatalf("note span = %d..%d, want 9..10", notes[0].Span.Start, notes[0].Span.End)
	}
}
