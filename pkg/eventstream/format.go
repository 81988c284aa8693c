// pkg/eventstream/format.go

package eventstream

import (
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// Format names a recorded event stream encoding.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatNDJSON  Format = "ndjson"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

var ErrUnknownFormat = cerr.New("unknown event stream format")

// Formats lists every concrete format, in the order shown by --help.
var Formats = []Format{FormatNDJSON, FormatJSON, FormatYAML, FormatMsgpack}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatNDJSON, FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	case "jsonl":
		return FormatNDJSON, nil
	case "yml":
		return FormatYAML, nil
	case "mp", "msgp":
		return FormatMsgpack, nil
	}
	return "", cerr.WithHint(cerr.Wrapf(ErrUnknownFormat, "%q", s),
		"use one of auto, ndjson, json, yaml, msgpack")
}

// Detect picks a format from the file extension of path.
func Detect(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", cerr.WithHint(cerr.Wrapf(ErrUnknownFormat, "cannot detect format of %q", path),
			"pass --format explicitly")
	}
}

// Resolve returns f unless it is FormatAuto, in which case the format is
// detected from path.
func Resolve(f Format, path string) (Format, error) {
	if f == FormatAuto || f == "" {
		return Detect(path)
	}
	return f, nil
}
