package model

// ArgumentType is the "type" discriminator of structured arguments.
type ArgumentType string

const (
	ArgString   ArgumentType = "string"
	ArgExpr     ArgumentType = "expr"
	ArgStruct   ArgumentType = "struct"
	ArgList     ArgumentType = "list"
	ArgFunction ArgumentType = "function"
	ArgSigSet   ArgumentType = "sigset"
	ArgFdPath   ArgumentType = "fd_path"
)

// Argument is a typed syscall argument.
type Argument interface {
	ArgType() ArgumentType
	isArgument()
}

// StringLiteral is a decoded "..." literal.
type StringLiteral string

// RawExpr is any other argument text: flags, numbers, pointers, macros.
type RawExpr string

// Struct is a {...} argument. Truncated is set when strace elided
// members with "...".
type Struct struct {
	Fields    Fields
	Truncated bool
}

// ListValue is a [...] argument.
type ListValue struct {
	Items []Argument
}

// FunctionCall is a macro-like argument such as makedev(0x1, 0x3).
type FunctionCall struct {
	Name string
	Args []Argument
}

// SigSet is a signal set: [CHLD TERM] or ~[RTMIN RT_1].
type SigSet struct {
	Negated bool
	Members []string
}

// FdPath is a descriptor annotated with its path (strace -y): 3</etc/passwd>.
type FdPath struct {
	Descriptor string
	Path       string
}

// KeyValue carries one key=value pair while a struct is being built. It is
// not an Argument and never appears in a finished record.
type KeyValue struct {
	Key   string
	Value Argument
}

func (StringLiteral) ArgType() ArgumentType { return ArgString }
func (RawExpr) ArgType() ArgumentType       { return ArgExpr }
func (*Struct) ArgType() ArgumentType       { return ArgStruct }
func (ListValue) ArgType() ArgumentType     { return ArgList }
func (FunctionCall) ArgType() ArgumentType  { return ArgFunction }
func (SigSet) ArgType() ArgumentType        { return ArgSigSet }
func (FdPath) ArgType() ArgumentType        { return ArgFdPath }

func (StringLiteral) isArgument() {}
func (RawExpr) isArgument()       {}
func (*Struct) isArgument()       {}
func (ListValue) isArgument()     {}
func (FunctionCall) isArgument()  {}
func (SigSet) isArgument()        {}
func (FdPath) isArgument()        {}
