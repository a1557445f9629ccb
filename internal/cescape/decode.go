// Package cescape decodes the C-style string literals strace prints.
package cescape

import (
	"strings"
	"unicode/utf8"
)

// Decode strips one pair of surrounding quotes and resolves C escapes.
//
// Recognised: \" \\ \n \t \r, octal \N to \NNN (so \0 too) and \xHH.
// Any other escape, a \x without two hex digits and a trailing lone
// backslash are kept as written. If an octal escape does not fit a byte
// or the decoded bytes are not valid UTF-8 the input is returned as is.
//
// Decode never fails. A truncated capture such as "abc"... is quoted on
// one side only and keeps its quotes.
func Decode(raw string) string {
	s := raw
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if strings.IndexByte(s, '\\') < 0 {
		if !utf8.ValidString(s) {
			return raw
		}
		return s
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			out = append(out, c)
			continue
		}
		switch n := s[i+1]; n {
		case '"', '\\':
			out = append(out, n)
			i++
		case 'n':
			out = append(out, '\n')
			i++
		case 't':
			out = append(out, '\t')
			i++
		case 'r':
			out = append(out, '\r')
			i++
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, j := 0, i+1
			for j < len(s) && j < i+4 && isOctal(s[j]) {
				v = v*8 + int(s[j]-'0')
				j++
			}
			if v > 0xff {
				return raw
			}
			out = append(out, byte(v))
			i = j - 1
		case 'x':
			if i+3 < len(s) && isHex(s[i+2]) && isHex(s[i+3]) {
				out = append(out, unhex(s[i+2])<<4|unhex(s[i+3]))
				i += 3
				continue
			}
			out = append(out, c)
		default:
			// неизвестный escape остаётся как есть
			out = append(out, c)
		}
	}
	if !utf8.Valid(out) {
		return raw
	}
	return string(out)
}

func isOctal(b byte) bool { return b >= '0' && b <= '7' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func unhex(b byte) byte {
	switch {
	case b >= 'a':
		return b - 'a' + 10
	case b >= 'A':
		return b - 'A' + 10
	}
	return b - '0'
}
