package transform

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"stracejson/internal/model"
	"stracejson/internal/syntax"
)

// Line converts one Line node: metadata tokens first, then the body.
// index is the position of the line in the log and only feeds errors.
func Line(index int, n *syntax.Node) (model.TraceLine, error) {
	if n == nil {
		return nil, &ShapeError{Kind: syntax.KindInvalid, Reason: "nil line"}
	}
	if n.Kind != syntax.KindLine {
		return nil, shapef(n, "expected a line")
	}

	var (
		meta   model.Meta
		haveTS bool
		body   any
		bodies int
	)
	for _, ch := range n.Children {
		switch {
		case ch.IsToken(syntax.TokPid):
			pid, err := parsePid(ch.Token.Text)
			if err != nil {
				return nil, shapef(n, "%v", err)
			}
			meta.Pid = &pid
		case ch.IsToken(syntax.TokTimestamp):
			ts, err := syntax.ParseTimestamp(ch.Token.Text)
			if err != nil {
				return nil, shapef(n, "timestamp %q: %v", ch.Token.Text, err)
			}
			meta.Timestamp = ts
			haveTS = true
		case ch.Node != nil:
			b, err := convertBody(ch.Node)
			if err != nil {
				return nil, err
			}
			body = b
			bodies++
		default:
			return nil, shapef(n, "unexpected %s", describeChild(ch))
		}
	}
	if !haveTS {
		return nil, shapef(n, "line has no timestamp")
	}
	if bodies > 1 {
		return nil, shapef(n, "line has %d bodies", bodies)
	}
	return ClassifyLine(index, meta, body)
}

// parsePid: strconv for the digits, safecast for the width.
func parsePid(text string) (uint32, error) {
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("pid %q: %w", text, err)
	}
	pid, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, fmt.Errorf("pid %q: %w", text, err)
	}
	return pid, nil
}

// convertBody converts record shapes. Any other node is handed over as is
// and rejected by ClassifyLine.
func convertBody(n *syntax.Node) (any, error) {
	switch n.Kind {
	case syntax.KindSyscall, syntax.KindUnfinished:
		return Syscall(n)
	case syntax.KindResumed:
		return Resumed(n)
	case syntax.KindSignal:
		return Signal(n)
	case syntax.KindAlert:
		return Alert(n)
	}
	return n, nil
}

// ClassifyLine attaches meta to a converted body. Only the three record
// shapes pass; anything else is a *ClassificationError.
func ClassifyLine(index int, meta model.Meta, body any) (model.TraceLine, error) {
	switch b := body.(type) {
	case *model.SyscallRecord:
		if b != nil {
			b.Meta = meta
			return b, nil
		}
	case *model.SignalRecord:
		if b != nil {
			b.Meta = meta
			return b, nil
		}
	case *model.AlertRecord:
		if b != nil {
			b.Meta = meta
			return b, nil
		}
	}
	kind := syntax.KindInvalid
	if n, ok := body.(*syntax.Node); ok && n != nil {
		kind = n.Kind
	}
	return nil, &ClassificationError{Line: index, Kind: kind, Got: fmt.Sprintf("%T", body)}
}

// Signal converts "--- SIGCHLD {...} ---".
//
//	Signal SIG_NAME <argument>
func Signal(n *syntax.Node) (*model.SignalRecord, error) {
	if n.Kind != syntax.KindSignal {
		return nil, shapef(n, "not a signal")
	}
	if len(n.Children) != 2 || !n.Children[0].IsToken(syntax.TokSigName) || n.Children[1].Node == nil {
		return nil, shapef(n, "expected a signal name and its info")
	}
	info, err := Argument(n.Children[1].Node)
	if err != nil {
		return nil, err
	}
	return &model.SignalRecord{Signal: n.Children[0].Token.Text, Info: info}, nil
}

// Alert joins the text tokens with single blanks.
func Alert(n *syntax.Node) (*model.AlertRecord, error) {
	if n.Kind != syntax.KindAlert {
		return nil, shapef(n, "not an alert")
	}
	parts := make([]string, 0, len(n.Children))
	for i, ch := range n.Children {
		if !ch.IsToken(syntax.TokText) {
			return nil, shapef(n, "child %d: unexpected %s", i, describeChild(ch))
		}
		parts = append(parts, ch.Token.Text)
	}
	return &model.AlertRecord{Message: strings.Join(parts, " ")}, nil
}
