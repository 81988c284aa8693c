// pkg/eventstream/encode.go

package eventstream

import (
	"encoding/json"
	"io"

	cerr "github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
)

// Encode writes events to w in format f. Text formats are always UTF-8
// without a BOM.
func Encode(w io.Writer, f Format, events []buildevent.Event) error {
	recs := make([]Record, 0, len(events))
	for i, ev := range events {
		rec, err := FromEvent(ev)
		if err != nil {
			return cerr.Wrapf(err, "event %d", i)
		}
		recs = append(recs, rec)
	}
	return EncodeRecords(w, f, recs)
}

// EncodeRecords writes already converted records.
func EncodeRecords(w io.Writer, f Format, recs []Record) error {
	switch f {
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for i, rec := range recs {
			if err := enc.Encode(rec); err != nil {
				return cerr.Wrapf(err, "record %d", i)
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if recs == nil {
			recs = []Record{}
		}
		return cerr.Wrap(enc.Encode(recs), "json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return cerr.Wrap(err, "yaml")
		}
		return cerr.Wrap(enc.Close(), "yaml")
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		for i, rec := range recs {
			if err := enc.Encode(&rec); err != nil {
				return cerr.Wrapf(err, "record %d", i)
			}
		}
		return nil
	}
	return cerr.Wrapf(ErrUnknownFormat, "cannot encode %q", string(f))
}
