package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexUnterminatedAngle   Code = 1003
	LexUnterminatedComment Code = 1004

	// Синтаксис строки лога
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynMissingTimestamp  Code = 2003
	SynBadTimestamp      Code = 2004
	SynBadPid            Code = 2005
	SynMissingResult     Code = 2006
	SynUnrecognizedLine  Code = 2007
	SynTrailingInput     Code = 2008
	SynExpectSignalName  Code = 2009

	// Дерево от внешней грамматики
	TreeInfo        Code = 3000
	TreeUnknownKind Code = 3001
	TreeBadToken    Code = 3002
	TreeMalformed   Code = 3003

	// Ввод-вывод
	IOLoadFileError Code = 4001

	// Наблюдаемость
	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string literal",
	LexUnterminatedAngle:   "Unterminated <...> annotation",
	LexUnterminatedComment: "Unterminated comment",
	SynUnexpectedToken:     "Unexpected token",
	SynUnclosedDelimiter:   "Unclosed delimiter",
	SynMissingTimestamp:    "Line has no timestamp",
	SynBadTimestamp:        "Malformed timestamp",
	SynBadPid:              "Malformed pid",
	SynMissingResult:       "Finished call has no result",
	SynUnrecognizedLine:    "Line does not match any known shape",
	SynTrailingInput:       "Unexpected input after end of line",
	SynExpectSignalName:    "Expected signal name",
	TreeUnknownKind:        "Unknown node kind in syntax tree",
	TreeBadToken:           "Unknown token type in syntax tree",
	TreeMalformed:          "Malformed syntax tree document",
	IOLoadFileError:        "I/O error",
	ObsTimings:             "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TREE%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return fmt.Sprintf("E%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}
func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
