package syntax

import "strings"

// Kind is the rule kind of a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLog
	KindLine
	KindSyscall
	KindUnfinished
	KindResumed
	KindSignal
	KindAlert
	KindArgs
	KindStruct
	KindList
	KindKeyValue
	KindFunction
	KindSigSet
	KindExpr
	KindString
	KindFdPath

	kindCount
)

// rule names as the grammar spells them
var kindNames = [kindCount]string{
	KindInvalid:    "invalid",
	KindLog:        "start",
	KindLine:       "line",
	KindSyscall:    "syscall",
	KindUnfinished: "syscall_unfinished",
	KindResumed:    "resumed_line",
	KindSignal:     "signal_line",
	KindAlert:      "alert_body",
	KindArgs:       "syscall_args",
	KindStruct:     "braced",
	KindList:       "bracketed",
	KindKeyValue:   "kv",
	KindFunction:   "function_like",
	KindSigSet:     "sigset",
	KindExpr:       "c_expr",
	KindString:     "string",
	KindFdPath:     "fd_path",
}

// kindAliases maps alternative rule names an external grammar may use.
var kindAliases = map[string]Kind{
	"log":        KindLog,
	"key_value":  KindKeyValue,
	"plain_arg":  KindExpr,
	"struct":     KindStruct,
	"list":       KindList,
	"function":   KindFunction,
	"unfinished": KindUnfinished,
	"resumed":    KindResumed,
	"signal":     KindSignal,
	"alert":      KindAlert,
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a rule name (or alias) to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindLog; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	k, ok := kindAliases[name]
	return k, ok
}

// IsBody reports whether k is one of the line body shapes.
func (k Kind) IsBody() bool {
	switch k {
	case KindSyscall, KindUnfinished, KindResumed, KindSignal, KindAlert:
		return true
	}
	return false
}

// IsArgument reports whether k can stand in argument position.
func (k Kind) IsArgument() bool {
	switch k {
	case KindStruct, KindList, KindKeyValue, KindFunction, KindSigSet, KindExpr, KindString, KindFdPath:
		return true
	}
	return false
}

// Kinds returns every valid kind, for exhaustiveness tests.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindLog; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// TokenType is the category of captured text.
type TokenType uint8

const (
	TokInvalid TokenType = iota
	TokPid
	TokTimestamp
	TokName
	TokResumedTag
	TokResult
	TokDuration
	TokSigName
	TokText
	TokNegated
	TokSignal
	TokEllipsis
	TokExpr
	TokString
	TokFd
	TokPath

	tokCount
)

var tokNames = [tokCount]string{
	TokInvalid:    "invalid",
	TokPid:        "pid",
	TokTimestamp:  "timestamp",
	TokName:       "name",
	TokResumedTag: "resumed",
	TokResult:     "result",
	TokDuration:   "duration",
	TokSigName:    "sig_name",
	TokText:       "text",
	TokNegated:    "negated",
	TokSignal:     "signal",
	TokEllipsis:   "ellipsis",
	TokExpr:       "expr",
	TokString:     "string",
	TokFd:         "fd",
	TokPath:       "path",
}

func (t TokenType) String() string {
	if t < tokCount {
		return tokNames[t]
	}
	return "unknown"
}

// ParseTokenType resolves a token type name, ignoring case.
func ParseTokenType(name string) (TokenType, bool) {
	for t := TokPid; t < tokCount; t++ {
		if strings.EqualFold(tokNames[t], name) {
			return t, true
		}
	}
	return TokInvalid, false
}
