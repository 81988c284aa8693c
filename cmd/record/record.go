// cmd/record/record.go

package record

import (
	"bytes"
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_cli"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_io"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/eventstream"
)

// ErrNoEvents is returned when stdin holds no events. Nothing is written.
var ErrNoEvents = cerr.New("no events on stdin")

var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Re-encode an NDJSON event stream read from stdin",
	Long: `Read NDJSON build events from stdin and write them to --out in another
format. Useful for turning captured events into test fixtures.

Example:
  ccnetlog record --out fixtures/build.msgpack < build.ndjson`,
	Args: cobra.NoArgs,
	RunE: ccnet_cli.Wrap(runRecord),
}

func init() {
	cli.AddStringFlag(RecordCmd, "out", "o", "", "File to write", true)
	cli.AddStringFlag(RecordCmd, "format", "f", "auto", "Output format: auto, ndjson, json, yaml, msgpack", false)
}

func runRecord(rc *ccnet_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	out, err := cli.GetRequiredString(cmd, "out")
	if err != nil {
		return ccnet_err.NewValidationError("missing --out", err)
	}
	rawFormat, _ := cmd.Flags().GetString("format")

	format, err := eventstream.ParseFormat(rawFormat)
	if err != nil {
		return ccnet_err.NewValidationError("invalid --format", err)
	}
	if format, err = eventstream.Resolve(format, out); err != nil {
		return ccnet_err.NewValidationError("cannot pick an output format", err)
	}

	events, err := eventstream.Decode(cmd.InOrStdin(), eventstream.FormatNDJSON)
	if err != nil {
		return ccnet_err.NewValidationError("stdin is not an NDJSON event stream",
			ccnet_err.WrapDecodeError(err, "stdin"))
	}
	if len(events) == 0 {
		return ccnet_err.NewExpectedError(cerr.WithHint(ErrNoEvents,
			"pipe an NDJSON stream into ccnetlog record; --out was left untouched"))
	}

	var buf bytes.Buffer
	if err := eventstream.Encode(&buf, format, events); err != nil {
		return ccnet_err.NewInternalError("events could not be encoded", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return ccnet_err.ClassifyError(err, "create "+filepath.Dir(out))
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return ccnet_err.ClassifyError(err, "write "+out)
	}

	rc.Log.Info("Events recorded",
		zap.String("path", out),
		zap.String("format", string(format)),
		zap.Int("events", len(events)))
	return nil
}
