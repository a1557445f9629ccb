package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

func strNode(s string) *yaml.Node {
	if !utf8.ValidString(s) {
		// без тега yaml.v3 сам закодирует это как !!binary
		return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func uintNode(v uint32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(uint64(v), 10)}
}

// floatNode always prints a fraction so 42 stays a float on read-back.
func floatNode(f float64) *yaml.Node {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nN") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func mapNode(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func seqNode(items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func metaPairs(t RecordType, h Meta) []*yaml.Node {
	pairs := []*yaml.Node{strNode("type"), strNode(string(t)), strNode("timestamp"), floatNode(h.Timestamp)}
	if h.Pid != nil {
		pairs = append(pairs, strNode("pid"), uintNode(*h.Pid))
	}
	return pairs
}

func optStr(s *string) *yaml.Node {
	if s == nil {
		return nullNode()
	}
	return strNode(*s)
}

func argsNode(as []Argument) (*yaml.Node, error) {
	items := make([]*yaml.Node, 0, len(as))
	for i, a := range as {
		n, err := ArgumentYAML(a)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		items = append(items, n)
	}
	return seqNode(items), nil
}

// LineYAML builds an order-preserving YAML mapping for one record.
func LineYAML(l TraceLine) (*yaml.Node, error) {
	switch r := l.(type) {
	case *SyscallRecord:
		args, err := argsNode(r.Args)
		if err != nil {
			return nil, err
		}
		pairs := metaPairs(TypeSyscall, r.Meta)
		pairs = append(pairs,
			strNode("name"), optStr(r.Name),
			strNode("status"), strNode(string(r.Status)),
			strNode("args"), args,
			strNode("result"), optStr(r.Result),
		)
		if r.Duration != nil {
			pairs = append(pairs, strNode("duration"), floatNode(*r.Duration))
		}
		return mapNode(pairs...), nil
	case *SignalRecord:
		info, err := ArgumentYAML(r.Info)
		if err != nil {
			return nil, err
		}
		pairs := metaPairs(TypeSignal, r.Meta)
		pairs = append(pairs, strNode("signal"), strNode(r.Signal), strNode("info"), info)
		return mapNode(pairs...), nil
	case *AlertRecord:
		pairs := metaPairs(TypeAlert, r.Meta)
		pairs = append(pairs, strNode("message"), strNode(r.Message))
		return mapNode(pairs...), nil
	}
	return nil, fmt.Errorf("unexpected trace line %T", l)
}

// ArgumentYAML builds the YAML form of an argument; the shape matches JSON.
func ArgumentYAML(a Argument) (*yaml.Node, error) {
	switch v := a.(type) {
	case nil:
		return nullNode(), nil
	case StringLiteral:
		return strNode(string(v)), nil
	case RawExpr:
		return strNode(string(v)), nil
	case *Struct:
		fields := make([]*yaml.Node, 0, 2*v.Fields.Len())
		for _, k := range v.Fields.Keys() {
			fv, _ := v.Fields.Get(k)
			n, err := ArgumentYAML(fv)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			fields = append(fields, strNode(k), n)
		}
		return mapNode(
			strNode("type"), strNode(string(ArgStruct)),
			strNode("fields"), mapNode(fields...),
			strNode("truncated"), boolNode(v.Truncated),
		), nil
	case ListValue:
		items, err := argsNode(v.Items)
		if err != nil {
			return nil, err
		}
		return mapNode(strNode("type"), strNode(string(ArgList)), strNode("items"), items), nil
	case FunctionCall:
		args, err := argsNode(v.Args)
		if err != nil {
			return nil, err
		}
		return mapNode(strNode("type"), strNode(string(ArgFunction)), strNode("name"), strNode(v.Name), strNode("args"), args), nil
	case SigSet:
		members := make([]*yaml.Node, 0, len(v.Members))
		for _, m := range v.Members {
			members = append(members, strNode(m))
		}
		return mapNode(
			strNode("type"), strNode(string(ArgSigSet)),
			strNode("negated"), boolNode(v.Negated),
			strNode("members"), seqNode(members),
		), nil
	case FdPath:
		return mapNode(
			strNode("type"), strNode(string(ArgFdPath)),
			strNode("descriptor"), strNode(v.Descriptor),
			strNode("path"), strNode(v.Path),
		), nil
	}
	return nil, fmt.Errorf("unexpected argument %T", a)
}

func (r *SyscallRecord) MarshalYAML() (any, error) { return LineYAML(r) }
func (r *SignalRecord) MarshalYAML() (any, error)  { return LineYAML(r) }
func (r *AlertRecord) MarshalYAML() (any, error)   { return LineYAML(r) }
