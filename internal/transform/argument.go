package transform

import (
	"strconv"

	"stracejson/internal/cescape"
	"stracejson/internal/model"
	"stracejson/internal/syntax"
)

// value is a converted argument subtree. Exactly one field is set: kv only
// for key=value nodes, which are folded by their parent.
type value struct {
	arg model.Argument
	kv  *model.KeyValue
}

// Argument converts one argument subtree. A key=value pair met outside a
// struct (clone(child_stack=NULL, ...)) becomes a one-field struct.
func Argument(n *syntax.Node) (model.Argument, error) {
	v, err := convert(n)
	if err != nil {
		return nil, err
	}
	return v.fold(), nil
}

func (v value) fold() model.Argument {
	if v.kv == nil {
		return v.arg
	}
	st := &model.Struct{}
	st.Fields.Set(v.kv.Key, v.kv.Value)
	return st
}

func convert(n *syntax.Node) (value, error) {
	switch n.Kind {
	case syntax.KindString:
		text, err := singleToken(n, syntax.TokString)
		if err != nil {
			return value{}, err
		}
		return value{arg: model.StringLiteral(cescape.Decode(text))}, nil

	case syntax.KindExpr:
		text, err := singleToken(n, syntax.TokExpr)
		if err != nil {
			return value{}, err
		}
		return value{arg: model.RawExpr(cescape.Decode(text))}, nil

	case syntax.KindFdPath:
		return convertFdPath(n)

	case syntax.KindSigSet:
		return convertSigSet(n)

	case syntax.KindList:
		items, err := Sequence(n)
		if err != nil {
			return value{}, err
		}
		return value{arg: model.ListValue{Items: items}}, nil

	case syntax.KindFunction:
		return convertFunction(n)

	case syntax.KindStruct:
		return convertStruct(n)

	case syntax.KindKeyValue:
		return convertKeyValue(n)
	}
	return value{}, shapef(n, "not an argument")
}

// Sequence converts the children of an Args or List node in order. A bare
// ellipsis token stands for omitted arguments and is kept as "...".
func Sequence(n *syntax.Node) ([]model.Argument, error) {
	out := make([]model.Argument, 0, len(n.Children))
	for i, ch := range n.Children {
		switch {
		case ch.Node != nil:
			arg, err := Argument(ch.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, arg)
		case ch.IsToken(syntax.TokEllipsis):
			out = append(out, model.RawExpr("..."))
		default:
			return nil, shapef(n, "child %d: unexpected %s", i, describeChild(ch))
		}
	}
	return out, nil
}

// convertStruct folds members in order: "..." marks truncation and adds no
// field, key=value sets a field (a repeated key keeps its first position and
// the last value), anything else is stored under its member index.
func convertStruct(n *syntax.Node) (value, error) {
	st := &model.Struct{}
	member := 0
	for i, ch := range n.Children {
		if ch.IsToken(syntax.TokEllipsis) {
			st.Truncated = true
			continue
		}
		if ch.Node == nil {
			return value{}, shapef(n, "child %d: unexpected %s", i, describeChild(ch))
		}
		v, err := convert(ch.Node)
		if err != nil {
			return value{}, err
		}
		if v.kv != nil {
			st.Fields.Set(v.kv.Key, v.kv.Value)
		} else {
			st.Fields.Set(strconv.Itoa(member), v.arg)
		}
		member++
	}
	return value{arg: st}, nil
}

func convertKeyValue(n *syntax.Node) (value, error) {
	if len(n.Children) != 2 || !n.Children[0].IsToken(syntax.TokName) || n.Children[1].Node == nil {
		return value{}, shapef(n, "expected a name and a value")
	}
	arg, err := Argument(n.Children[1].Node)
	if err != nil {
		return value{}, err
	}
	return value{kv: &model.KeyValue{Key: n.Children[0].Token.Text, Value: arg}}, nil
}

func convertFunction(n *syntax.Node) (value, error) {
	if len(n.Children) == 0 || len(n.Children) > 2 || !n.Children[0].IsToken(syntax.TokName) {
		return value{}, shapef(n, "expected a name and optional arguments")
	}
	fn := model.FunctionCall{Name: n.Children[0].Token.Text, Args: []model.Argument{}}
	if len(n.Children) == 2 {
		if !n.Children[1].IsNode(syntax.KindArgs) {
			return value{}, shapef(n, "expected arguments after %s", fn.Name)
		}
		args, err := Sequence(n.Children[1].Node)
		if err != nil {
			return value{}, err
		}
		fn.Args = args
	}
	return value{arg: fn}, nil
}

// convertSigSet folds the tokens into (negated, members); the negation
// marker is never a member.
func convertSigSet(n *syntax.Node) (value, error) {
	set := model.SigSet{Members: []string{}}
	for i, ch := range n.Children {
		switch {
		case ch.IsToken(syntax.TokNegated):
			set.Negated = true
		case ch.IsToken(syntax.TokSignal):
			set.Members = append(set.Members, ch.Token.Text)
		default:
			return value{}, shapef(n, "child %d is not a signal", i)
		}
	}
	return value{arg: set}, nil
}

func convertFdPath(n *syntax.Node) (value, error) {
	if len(n.Children) != 2 || !n.Children[0].IsToken(syntax.TokFd) || !n.Children[1].IsToken(syntax.TokPath) {
		return value{}, shapef(n, "expected descriptor and path")
	}
	return value{arg: model.FdPath{
		Descriptor: n.Children[0].Token.Text,
		Path:       cescape.Decode(n.Children[1].Token.Text),
	}}, nil
}

func singleToken(n *syntax.Node, typ syntax.TokenType) (string, error) {
	if len(n.Children) != 1 || !n.Children[0].IsToken(typ) {
		return "", shapef(n, "expected a single %s token", typ)
	}
	return n.Children[0].Token.Text, nil
}

func describeChild(ch syntax.Child) string {
	switch {
	case ch.Node != nil:
		return ch.Node.Kind.String() + " node"
	case ch.Token != nil:
		return ch.Token.Type.String() + " token"
	}
	return "empty child"
}
