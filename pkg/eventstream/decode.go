// pkg/eventstream/decode.go

// Package eventstream reads and writes recorded build event streams so a
// build can be replayed through the logger without the orchestrator.
package eventstream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
)

// Decode reads every event of the stream in r. FormatAuto is not accepted
// here; use DecodeFile or Resolve first.
func Decode(r io.Reader, f Format) ([]buildevent.Event, error) {
	recs, err := decodeRecords(r, f)
	if err != nil {
		return nil, err
	}

	events := make([]buildevent.Event, 0, len(recs))
	for i, rec := range recs {
		ev, err := rec.Event()
		if err != nil {
			return nil, cerr.Wrapf(err, "record %d", i)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeFile opens path and decodes it, detecting the format from the
// extension when f is FormatAuto.
func DecodeFile(ctx context.Context, path string, f Format) ([]buildevent.Event, error) {
	log := otelzap.Ctx(ctx)

	f, err := Resolve(f, path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ccnet_err.ClassifyError(err, "open event stream")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn("Failed to close event stream", zap.String("path", path), zap.Error(closeErr))
		}
	}()

	events, err := Decode(file, f)
	if err != nil {
		return nil, ccnet_err.NewValidationError("event stream could not be decoded",
			ccnet_err.WrapDecodeError(err, path),
			"Check that --format matches the file contents")
	}
	log.Debug("Decoded event stream",
		zap.String("path", path),
		zap.String("format", string(f)),
		zap.Int("events", len(events)))
	return events, nil
}

func decodeRecords(r io.Reader, f Format) ([]Record, error) {
	switch f {
	case FormatNDJSON, FormatJSON:
		return decodeJSON(text(r))
	case FormatYAML:
		return decodeYAML(text(r))
	case FormatMsgpack:
		return decodeMsgpack(r)
	case FormatAuto:
		return nil, cerr.AssertionFailedf("format must be resolved before decoding")
	}
	return nil, cerr.Wrapf(ErrUnknownFormat, "%q", string(f))
}

// decodeJSON accepts both a JSON array of records and a sequence of
// whitespace separated records (NDJSON).
func decodeJSON(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var recs []Record
		if err := dec.Decode(&recs); err != nil {
			return nil, cerr.Wrap(err, "json array")
		}
		return recs, nil
	}

	var recs []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, cerr.Wrapf(err, "record %d", len(recs))
		}
		recs = append(recs, rec)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

func decodeYAML(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, cerr.Wrap(err, "yaml")
	}
	return recs, nil
}

// decodeMsgpack reads consecutive msgpack maps until EOF.
func decodeMsgpack(r io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	var recs []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if cerr.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return nil, cerr.Wrapf(err, "record %d", len(recs))
		}
		recs = append(recs, rec)
	}
}
