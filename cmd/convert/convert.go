// cmd/convert/convert.go

package convert

import (
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/aggregator"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_cli"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_io"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnetlogger"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/config"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/eventstream"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/replay"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/sink"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/verbosity"
)

var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Replay a recorded event stream and write the build report",
	Long: `Replay a recorded build event stream through the logger and write the
msbuild report.

The report path is the first ';'-separated segment of --parameters, the same
parameter string the build passes to the logger. It defaults to
msbuild-output.xml.

Examples:
  ccnetlog convert --events build.ndjson
  ccnetlog convert --events build.yaml --parameters "artifacts/msbuild.xml;v" --verbosity detailed
  CCNETLOG_VERBOSITY=minimal ccnetlog convert --events build.msgpack --stdout`,
	Args: cobra.NoArgs,
	RunE: ccnet_cli.Wrap(runConvert),
}

func init() {
	cli.AddStringFlag(ConvertCmd, config.KeyEvents, "e", "", "Recorded event stream to replay", false)
	cli.AddStringFlag(ConvertCmd, config.KeyFormat, "f", "auto", "Event stream format: auto, ndjson, json, yaml, msgpack", false)
	cli.AddStringFlag(ConvertCmd, config.KeyParameters, "p", "", "Logger parameters; the report path comes before the first ';'", false)
	cli.AddStringFlag(ConvertCmd, config.KeyVerbosity, "v", "", "Message verbosity: quiet, minimal, normal, detailed, diagnostic", false)
	cli.AddIntFlag(ConvertCmd, config.KeyWorkers, "w", config.DefaultWorkers, "Build nodes replayed at the same time")
	cli.AddIntFlag(ConvertCmd, config.KeyShards, "", 32, "Project map shards")
	cli.AddBoolFlag(ConvertCmd, config.KeyStdout, "", false, "Also write the report to stdout")
}

func runConvert(rc *ccnet_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	level, err := verbosity.Parse(settings.Verbosity)
	if err != nil {
		rc.Log.Warn("Unknown verbosity, keeping every message",
			zap.String("verbosity", settings.Verbosity), zap.Error(err))
	}
	format, err := eventstream.ParseFormat(settings.Format)
	if err != nil {
		return ccnet_err.NewValidationError("invalid --format", err)
	}

	decodeCtx, span := rc.Child("decode", attribute.String("path", settings.Events))
	events, err := eventstream.DecodeFile(decodeCtx, settings.Events, format)
	span.End()
	if err != nil {
		return err
	}

	l := ccnetlogger.New(settings.Parameters, level,
		ccnetlogger.WithAggregatorOptions(
			aggregator.WithLogger(rc.Log),
			aggregator.WithShards(settings.Shards),
		))
	player := replay.NewPlayer(events, settings.Workers)
	l.Initialize(player)

	replayCtx, span := rc.Child("replay", attribute.Int("events", len(events)))
	err = player.Run(replayCtx)
	span.End()
	if err != nil {
		return ccnet_err.NewInternalError("replay failed", err)
	}
	rc.Log.Debug("Events replayed",
		zap.Int("events", len(events)),
		zap.Uint64("delivered", player.Delivered()),
		zap.Int("workers", settings.Workers))

	var dst sink.Sink = l.FileSink()
	if settings.Stdout {
		dst = sink.Multi{dst, sink.Writer{W: cmd.OutOrStdout()}}
	}

	writeCtx, span := rc.Child("write", attribute.String("destination", l.Destination()))
	res, err := l.Shutdown(writeCtx, dst)
	span.End()
	if err != nil {
		return err
	}

	if err := telemetry.RecordRun(rc.Ctx, rc.Command, telemetry.RunCounts{
		Dispatched: int64(res.Stats.Dispatched),
		Admitted:   int64(res.Stats.Admitted),
		Dropped:    int64(res.Stats.Dropped),
		Projects:   int64(res.Totals.Projects),
		Errors:     int64(res.Totals.Errors),
		Warnings:   int64(res.Totals.Warnings),
	}); err != nil {
		rc.Log.Warn("Failed to record metrics", zap.Error(err))
	}

	rc.Attributes["destination"] = res.Destination
	rc.Log.Info("Build report written",
		zap.String("destination", res.Destination),
		zap.Int("projects", res.Totals.Projects),
		zap.Int("errors", res.Totals.Errors),
		zap.Int("warnings", res.Totals.Warnings),
		zap.Int("messages", res.Totals.Messages),
		zap.Uint64("dropped_messages", res.Stats.Dropped))
	return nil
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	v := viper.New()
	config.SetDefaults(v)
	cli.SetViperEnvPrefix(v, config.EnvPrefix)
	if err := cli.BindFlagsToViper(cmd, v); err != nil {
		return config.Settings{}, ccnet_err.NewInternalError("flags could not be bound", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	if err := config.ReadConfigFile(v, configPath); err != nil {
		return config.Settings{}, err
	}

	s, err := config.Load(v)
	if err != nil {
		return config.Settings{}, cerr.WithHint(err, "pass --events or set CCNETLOG_EVENTS")
	}
	return s, nil
}
