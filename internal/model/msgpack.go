package model

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = (*SyscallRecord)(nil)
	_ msgpack.CustomEncoder = (*SignalRecord)(nil)
	_ msgpack.CustomEncoder = (*AlertRecord)(nil)
	_ msgpack.CustomEncoder = (*Struct)(nil)
	_ msgpack.CustomEncoder = ListValue{}
)

// mpMap writes one msgpack map; the first error sticks.
type mpMap struct {
	enc *msgpack.Encoder
	err error
}

func newMap(enc *msgpack.Encoder, n int) *mpMap {
	return &mpMap{enc: enc, err: enc.EncodeMapLen(n)}
}

func (m *mpMap) key(k string) bool {
	if m.err == nil {
		m.err = m.enc.EncodeString(k)
	}
	return m.err == nil
}

func (m *mpMap) str(k, v string) {
	if m.key(k) {
		m.err = m.enc.EncodeString(v)
	}
}

func (m *mpMap) val(k string, v any) {
	if m.key(k) {
		m.err = m.enc.Encode(v)
	}
}

func (m *mpMap) arg(k string, a Argument) {
	if m.key(k) {
		m.err = encodeArgMsgpack(m.enc, a)
	}
}

func (m *mpMap) args(k string, as []Argument) {
	if !m.key(k) {
		return
	}
	if m.err = m.enc.EncodeArrayLen(len(as)); m.err != nil {
		return
	}
	for _, a := range as {
		if m.err = encodeArgMsgpack(m.enc, a); m.err != nil {
			return
		}
	}
}

func encodeArgMsgpack(enc *msgpack.Encoder, a Argument) error {
	if a == nil {
		return enc.EncodeNil()
	}
	return enc.Encode(a)
}

// meta пишет общие поля; pid пропускается, если его нет.
func (m *mpMap) meta(t RecordType, h Meta) {
	m.str("type", string(t))
	m.val("timestamp", h.Timestamp)
	if h.Pid != nil {
		m.val("pid", *h.Pid)
	}
}

func metaLen(h Meta) int {
	if h.Pid != nil {
		return 3
	}
	return 2
}

func (r *SyscallRecord) EncodeMsgpack(enc *msgpack.Encoder) error {
	n := metaLen(r.Meta) + 4
	if r.Duration != nil {
		n++
	}
	m := newMap(enc, n)
	m.meta(TypeSyscall, r.Meta)
	m.val("name", r.Name)
	m.str("status", string(r.Status))
	m.args("args", r.Args)
	m.val("result", r.Result)
	if r.Duration != nil {
		m.val("duration", *r.Duration)
	}
	return m.err
}

func (r *SignalRecord) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, metaLen(r.Meta)+2)
	m.meta(TypeSignal, r.Meta)
	m.str("signal", r.Signal)
	m.arg("info", r.Info)
	return m.err
}

func (r *AlertRecord) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, metaLen(r.Meta)+1)
	m.meta(TypeAlert, r.Meta)
	m.str("message", r.Message)
	return m.err
}

func (s StringLiteral) EncodeMsgpack(enc *msgpack.Encoder) error { return enc.EncodeString(string(s)) }
func (r RawExpr) EncodeMsgpack(enc *msgpack.Encoder) error       { return enc.EncodeString(string(r)) }

func (s *Struct) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, 3)
	m.str("type", string(ArgStruct))
	if m.key("fields") {
		m.err = enc.EncodeMapLen(s.Fields.Len())
		for _, k := range s.Fields.Keys() {
			v, _ := s.Fields.Get(k)
			m.arg(k, v)
		}
	}
	m.val("truncated", s.Truncated)
	return m.err
}

func (l ListValue) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, 2)
	m.str("type", string(ArgList))
	m.args("items", l.Items)
	return m.err
}

func (f FunctionCall) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, 3)
	m.str("type", string(ArgFunction))
	m.str("name", f.Name)
	m.args("args", f.Args)
	return m.err
}

func (s SigSet) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, 3)
	m.str("type", string(ArgSigSet))
	m.val("negated", s.Negated)
	m.val("members", orEmpty(s.Members))
	return m.err
}

func (f FdPath) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := newMap(enc, 3)
	m.str("type", string(ArgFdPath))
	m.str("descriptor", f.Descriptor)
	m.str("path", f.Path)
	return m.err
}

// EncodeLinesMsgpack writes lines as one msgpack array.
func EncodeLinesMsgpack(enc *msgpack.Encoder, lines []TraceLine) error {
	if err := enc.EncodeArrayLen(len(lines)); err != nil {
		return err
	}
	for i, l := range lines {
		if l == nil {
			return fmt.Errorf("line %d: nil record", i)
		}
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}
