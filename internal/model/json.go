package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// marshal is json.Marshal without HTML escaping; strace text is full of
// '<', '>' and '&'.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type syscallJSON struct {
	Type      RecordType `json:"type"`
	Timestamp float64    `json:"timestamp"`
	Pid       *uint32    `json:"pid,omitempty"`
	Name      *string    `json:"name"`
	Status    Status     `json:"status"`
	Args      []Argument `json:"args"`
	Result    *string    `json:"result"`
	Duration  *float64   `json:"duration,omitempty"`
}

type signalJSON struct {
	Type      RecordType `json:"type"`
	Timestamp float64    `json:"timestamp"`
	Pid       *uint32    `json:"pid,omitempty"`
	Signal    string     `json:"signal"`
	Info      Argument   `json:"info"`
}

type alertJSON struct {
	Type      RecordType `json:"type"`
	Timestamp float64    `json:"timestamp"`
	Pid       *uint32    `json:"pid,omitempty"`
	Message   string     `json:"message"`
}

func (r *SyscallRecord) MarshalJSON() ([]byte, error) {
	return marshal(syscallJSON{
		Type:      TypeSyscall,
		Timestamp: r.Timestamp,
		Pid:       r.Pid,
		Name:      r.Name,
		Status:    r.Status,
		Args:      orEmpty(r.Args),
		Result:    r.Result,
		Duration:  r.Duration,
	})
}

func (r *SignalRecord) MarshalJSON() ([]byte, error) {
	return marshal(signalJSON{Type: TypeSignal, Timestamp: r.Timestamp, Pid: r.Pid, Signal: r.Signal, Info: r.Info})
}

func (r *AlertRecord) MarshalJSON() ([]byte, error) {
	return marshal(alertJSON{Type: TypeAlert, Timestamp: r.Timestamp, Pid: r.Pid, Message: r.Message})
}

func (s StringLiteral) MarshalJSON() ([]byte, error) { return marshal(string(s)) }
func (r RawExpr) MarshalJSON() ([]byte, error)       { return marshal(string(r)) }

// MarshalJSON keeps field order, which encoding/json would sort for a map.
func (s *Struct) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"struct","fields":{`)
	for i, k := range s.Fields.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshal(k)
		if err != nil {
			return nil, err
		}
		v, _ := s.Fields.Get(k)
		vb, err := marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteString(`},"truncated":`)
	buf.WriteString(strconv.FormatBool(s.Truncated))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l ListValue) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type  ArgumentType `json:"type"`
		Items []Argument   `json:"items"`
	}{ArgList, orEmpty(l.Items)})
}

func (f FunctionCall) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type ArgumentType `json:"type"`
		Name string       `json:"name"`
		Args []Argument   `json:"args"`
	}{ArgFunction, f.Name, orEmpty(f.Args)})
}

func (s SigSet) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type    ArgumentType `json:"type"`
		Negated bool         `json:"negated"`
		Members []string     `json:"members"`
	}{ArgSigSet, s.Negated, orEmpty(s.Members)})
}

func (f FdPath) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type       ArgumentType `json:"type"`
		Descriptor string       `json:"descriptor"`
		Path       string       `json:"path"`
	}{ArgFdPath, f.Descriptor, f.Path})
}
