package model

// Status of a syscall record.
type Status string

const (
	StatusFinished   Status = "finished"
	StatusUnfinished Status = "unfinished"
	StatusResumed    Status = "resumed"
)

// RecordType is the "type" discriminator of a TraceLine.
type RecordType string

const (
	TypeSyscall RecordType = "syscall"
	TypeSignal  RecordType = "signal"
	TypeAlert   RecordType = "alert"
)

// Meta is the per-line metadata every record carries.
type Meta struct {
	Timestamp float64 // seconds
	Pid       *uint32 // nil when the log was captured without -f
}

// Header returns the line metadata.
func (m Meta) Header() Meta { return m }

// TraceLine is one converted log line.
type TraceLine interface {
	Type() RecordType
	Header() Meta
	isTraceLine()
}

// SyscallRecord is a finished, unfinished or resumed system call.
//
// Result is nil exactly when Status is unfinished. Name is nil only for a
// resumed record whose tag did not name the call.
type SyscallRecord struct {
	Meta
	Name     *string
	Status   Status
	Args     []Argument
	Result   *string
	Duration *float64 // seconds spent in the call (strace -T)
}

// SignalRecord is a "--- SIGxxx {...} ---" line.
type SignalRecord struct {
	Meta
	Signal string
	Info   Argument
}

// AlertRecord is any other marker line, e.g. "+++ exited with 0 +++".
type AlertRecord struct {
	Meta
	Message string
}

func (*SyscallRecord) Type() RecordType { return TypeSyscall }
func (*SignalRecord) Type() RecordType  { return TypeSignal }
func (*AlertRecord) Type() RecordType   { return TypeAlert }

func (*SyscallRecord) isTraceLine() {}
func (*SignalRecord) isTraceLine()  {}
func (*AlertRecord) isTraceLine()   {}
