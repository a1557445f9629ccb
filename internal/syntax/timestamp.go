package syntax

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errBadClock  = errors.New("malformed wall-clock timestamp")
	errBadNumber = errors.New("malformed timestamp")
)

// ParseTimestamp converts a timestamp token to seconds. Two forms exist:
// a plain number (strace -ttt / -r: 1690000000.123456) and a wall clock
// HH:MM:SS[.frac] (strace -t / -tt), read as seconds since midnight.
func ParseTimestamp(text string) (float64, error) {
	if !strings.Contains(text, ":") {
		if !isDecimal(text) {
			return 0, errBadNumber
		}
		return strconv.ParseFloat(text, 64)
	}

	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, errBadClock
	}
	h, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || h > 23 {
		return 0, errBadClock
	}
	m, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || m > 59 {
		return 0, errBadClock
	}
	// секунды могут быть дробными; 60 допустимо для leap second
	if !isDecimal(parts[2]) {
		return 0, errBadClock
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || s >= 61 {
		return 0, errBadClock
	}
	return float64(h)*3600 + float64(m)*60 + s, nil
}

// isDecimal accepts digits with at most one dot, no sign, no exponent.
func isDecimal(s string) bool {
	if s == "" || s[0] == '.' {
		return false
	}
	dot := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}
