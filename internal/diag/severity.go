package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics; a larger value is more serious.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var sevNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(sevNames) {
		return sevNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity accepts a severity name in any case; "warn" means WARNING.
func ParseSeverity(s string) (Severity, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARN" {
		return SevWarning, nil
	}
	for sev, n := range sevNames {
		if n == name {
			return Severity(sev), nil //nolint:gosec // индекс из фиксированной таблицы
		}
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected: info|warning|error)", s)
}
