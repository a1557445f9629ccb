package transform

import (
	"strconv"
	"strings"

	"stracejson/internal/model"
	"stracejson/internal/syntax"
)

// Syscall converts a finished or unfinished call.
//
//	Syscall    NAME Args? RESULT DURATION?
//	Unfinished NAME Args?
func Syscall(n *syntax.Node) (*model.SyscallRecord, error) {
	if n.Kind != syntax.KindSyscall && n.Kind != syntax.KindUnfinished {
		return nil, shapef(n, "not a syscall")
	}
	if len(n.Children) == 0 || !n.Children[0].IsToken(syntax.TokName) {
		return nil, shapef(n, "call has no name")
	}
	name := n.Children[0].Token.Text
	rec := &model.SyscallRecord{Name: &name}

	t, err := splitTail(n, n.Children[1:])
	if err != nil {
		return nil, err
	}
	rec.Args = t.args

	if n.Kind == syntax.KindUnfinished {
		if t.result != nil || t.duration != nil {
			return nil, shapef(n, "unfinished call carries a result")
		}
		rec.Status = model.StatusUnfinished
		return rec, nil
	}
	if t.result == nil {
		return nil, shapef(n, "finished call %s has no result", name)
	}
	rec.Status = model.StatusFinished
	rec.Result = t.result
	rec.Duration = t.duration
	return rec, nil
}

type tail struct {
	args     []model.Argument
	result   *string
	duration *float64
}

// splitTail разбирает хвост вызова после имени или тега. The element after
// the name is the argument list only if it is an Args node; otherwise it is
// already the result and the call has no arguments.
func splitTail(n *syntax.Node, rest []syntax.Child) (tail, error) {
	t := tail{args: []model.Argument{}}
	if len(rest) > 0 && rest[0].IsNode(syntax.KindArgs) {
		args, err := Sequence(rest[0].Node)
		if err != nil {
			return tail{}, err
		}
		t.args = args
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0].IsToken(syntax.TokResult) {
		r := strings.TrimSpace(rest[0].Token.Text)
		t.result = &r
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0].IsToken(syntax.TokDuration) {
		if t.result == nil {
			return tail{}, shapef(n, "duration without a result")
		}
		text := strings.TrimSuffix(strings.TrimPrefix(rest[0].Token.Text, "<"), ">")
		d, err := strconv.ParseFloat(text, 64)
		if err != nil || d < 0 {
			return tail{}, shapef(n, "bad duration %q", rest[0].Token.Text)
		}
		t.duration = &d
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return tail{}, shapef(n, "unexpected %s after the call", describeChild(rest[0]))
	}
	return t, nil
}
