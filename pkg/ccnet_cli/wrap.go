// pkg/ccnet_cli/wrap.go

package ccnet_cli

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_io"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/logger"
)

// RunFunc is a command body with its runtime context.
type RunFunc func(rc *ccnet_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Wrap ensures panic recovery, telemetry and logging around fn.
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		rc := ccnet_io.NewContext(parent, cmd.Name())
		done := logger.LogCommandLifecycle(rc.Log, cmd.CommandPath(), zap.Strings("args", args))
		defer rc.End(&err)
		defer done(&err)
		defer rc.HandlePanic(&err)

		err = fn(rc, cmd, args)
		if err != nil && !ccnet_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
