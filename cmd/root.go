/* cmd/root.go */

package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/cmd/convert"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/cmd/record"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/cmd/summarize"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/config"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/telemetry"
)

// RootCmd is the base command for ccnetlog.
var RootCmd = &cobra.Command{
	Use:   "ccnetlog",
	Short: "Turn build events into a CruiseControl.NET build report",
	Long: `ccnetlog collects the projects, errors, warnings and messages of a build and
writes them as a single msbuild XML report that CruiseControl.NET dashboards
can merge into their build log.

Recorded event streams (NDJSON, JSON, YAML or MessagePack) are replayed
through the same logger the build uses, so reports can be regenerated or
tested without rerunning the build.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		ccnet_err.SetDebugMode(debug)

		envFile, _ := cmd.Flags().GetString("env-file")
		return config.LoadEnvFile(envFile)
	},
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Config file (yaml, toml or json)")
	RootCmd.PersistentFlags().String("env-file", "", "Load CCNETLOG_* variables from this .env file")
	RootCmd.PersistentFlags().Bool("debug", false, "Print full error details")

	RootCmd.AddCommand(
		convert.ConvertCmd,
		summarize.SummarizeCmd,
		record.RecordCmd,
	)
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	err := RootCmd.ExecuteContext(context.Background())

	if shutdownErr := telemetry.Shutdown(context.Background()); shutdownErr != nil {
		logger.L().Warn("Failed to flush telemetry", zap.Error(shutdownErr))
	}
	code := ccnet_err.GetExitCode(err)
	if err != nil {
		ccnet_err.PrintError("ccnetlog "+commandName(), err)
	}
	logger.Sync()
	os.Exit(code)
}

func commandName() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "command"
}
