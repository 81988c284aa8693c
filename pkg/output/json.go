// Package output formats command results for the terminal: aligned tables
// for people, indented JSON for scripts.
package output

import (
	"encoding/json"
	"io"
)

// JSONTo writes any data structure as formatted JSON to the specified writer.
func JSONTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}
