package parser

import "strings"

// короткие имена, которые strace печатает в наборах сигналов без префикса SIG
var shortSignals = map[string]struct{}{
	"HUP": {}, "INT": {}, "QUIT": {}, "ILL": {}, "TRAP": {}, "ABRT": {}, "IOT": {},
	"BUS": {}, "FPE": {}, "KILL": {}, "USR1": {}, "SEGV": {}, "USR2": {}, "PIPE": {},
	"ALRM": {}, "TERM": {}, "STKFLT": {}, "CHLD": {}, "CONT": {}, "STOP": {}, "TSTP": {},
	"TTIN": {}, "TTOU": {}, "URG": {}, "XCPU": {}, "XFSZ": {}, "VTALRM": {}, "PROF": {},
	"WINCH": {}, "IO": {}, "POLL": {}, "PWR": {}, "SYS": {}, "EMT": {}, "LOST": {},
}

func isSignalName(s string) bool {
	if strings.HasPrefix(s, "SIG") || strings.HasPrefix(s, "RT") {
		return true
	}
	_, ok := shortSignals[s]
	return ok
}
