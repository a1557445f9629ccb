package token

// Kind represents the category of a lexed token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the lexed range (the end of a log line).
	EOF

	Ident    // open, O_RDONLY, SIGCHLD
	Number   // 3, -1 is Operator+Number, 0x7ffd, 1690000000.123456
	String   // "..." with escapes, optionally followed by a truncation "..."
	Ellipsis // ...
	Comment  // /* 30 vars */

	ResumedTag // <... read resumed>
	Unfinished // <unfinished ...>
	Angle      // <...> glued to the previous token: 3</etc/passwd>
	Duration   // <0.000012> after the result

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Comma    // ,
	Assign   // =
	Tilde    // ~
	Operator // any other punctuation run: | & + - * / == && || -> ? : .
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	Number:     "Number",
	String:     "String",
	Ellipsis:   "Ellipsis",
	Comment:    "Comment",
	ResumedTag: "ResumedTag",
	Unfinished: "Unfinished",
	Angle:      "Angle",
	Duration:   "Duration",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
	Comma:      "Comma",
	Assign:     "Assign",
	Tilde:      "Tilde",
	Operator:   "Operator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsCloser reports whether k ends a bracketed group.
func (k Kind) IsCloser() bool {
	return k == RParen || k == RBrace || k == RBracket
}
