package emit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"stracejson/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON    Format = "json"    // one JSON array
	FormatNDJSON  Format = "ndjson"  // one record per line
	FormatYAML    Format = "yaml"    // one YAML sequence document
	FormatMsgpack Format = "msgpack" // one msgpack array
)

// Formats lists the supported formats in help order.
func Formats() []Format {
	return []Format{FormatJSON, FormatNDJSON, FormatYAML, FormatMsgpack}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected: json|ndjson|yaml|msgpack)", s)
}

// Binary reports whether the format must not be written to a terminal.
func (f Format) Binary() bool { return f == FormatMsgpack }

// Encode writes lines to w. indent is the number of spaces for json and
// yaml nesting; 0 gives compact json and the yaml default.
func Encode(w io.Writer, lines []model.TraceLine, format Format, indent int) error {
	if lines == nil {
		lines = []model.TraceLine{}
	}
	if indent < 0 {
		return fmt.Errorf("negative indent %d", indent)
	}
	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case FormatJSON, "":
		err = encodeJSON(bw, lines, indent)
	case FormatNDJSON:
		err = encodeNDJSON(bw, lines)
	case FormatYAML:
		err = encodeYAML(bw, lines, indent)
	case FormatMsgpack:
		err = model.EncodeLinesMsgpack(msgpack.NewEncoder(bw), lines)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return bw.Flush()
}

func encodeJSON(w io.Writer, lines []model.TraceLine, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	return enc.Encode(lines)
}

func encodeNDJSON(w io.Writer, lines []model.TraceLine) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, l := range lines {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func encodeYAML(w io.Writer, lines []model.TraceLine, indent int) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, l := range lines {
		n, err := model.LineYAML(l)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		seq.Content = append(seq.Content, n)
	}
	enc := yaml.NewEncoder(w)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{seq}}); err != nil {
		return err
	}
	return enc.Close()
}
