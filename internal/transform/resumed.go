package transform

import (
	"regexp"

	"stracejson/internal/model"
	"stracejson/internal/syntax"
)

var resumedTag = regexp.MustCompile(`^<\.\.\.\s+([A-Za-z_][A-Za-z0-9_]*)\s+resumed>$`)

// ResumedName extracts the call name from "<... read resumed>". Tags that
// do not name a call ("<... resumed>") give nil.
func ResumedName(tag string) *string {
	m := resumedTag.FindStringSubmatch(tag)
	if m == nil {
		return nil
	}
	return &m[1]
}

// Resumed converts the second half of an interrupted call.
//
//	Resumed RESUMED Args? RESULT DURATION?
func Resumed(n *syntax.Node) (*model.SyscallRecord, error) {
	if n.Kind != syntax.KindResumed {
		return nil, shapef(n, "not a resumed call")
	}
	if len(n.Children) == 0 || !n.Children[0].IsToken(syntax.TokResumedTag) {
		return nil, shapef(n, "resumed call has no tag")
	}
	t, err := splitTail(n, n.Children[1:])
	if err != nil {
		return nil, err
	}
	if t.result == nil {
		return nil, shapef(n, "resumed call has no result")
	}
	return &model.SyscallRecord{
		Name:     ResumedName(n.Children[0].Token.Text),
		Status:   model.StatusResumed,
		Args:     t.args,
		Result:   t.result,
		Duration: t.duration,
	}, nil
}
