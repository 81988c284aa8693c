// cmd/summarize/summarize.go

package summarize

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_cli"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_io"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/summary"
)

var SummarizeCmd = &cobra.Command{
	Use:     "summarize REPORT",
	Aliases: []string{"summary", "inspect"},
	Short:   "Print per-project counts of a written report",
	Long: `Read an msbuild report and print its error, warning and message counts per
project. With --verify the command fails when the counts on the root element
disagree with the projects it contains.`,
	Args: cobra.ExactArgs(1),
	RunE: ccnet_cli.Wrap(runSummarize),
}

func init() {
	cli.AddBoolFlag(SummarizeCmd, "json", "", false, "Print JSON instead of a table")
	cli.AddBoolFlag(SummarizeCmd, "verify", "", false, "Fail if root counts do not match the projects")
}

func runSummarize(rc *ccnet_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	verify, _ := cmd.Flags().GetBool("verify")

	s, err := summary.ParseFile(rc.Ctx, args[0])
	if err != nil {
		return err
	}
	rc.Log.Debug("Report parsed",
		zap.String("path", args[0]),
		zap.Int("projects", len(s.Projects)))

	out := cmd.OutOrStdout()
	if asJSON {
		err = s.WriteJSON(out)
	} else {
		err = s.WriteTable(out)
	}
	if err != nil {
		return err
	}

	if verify {
		return s.Verify()
	}
	return nil
}
