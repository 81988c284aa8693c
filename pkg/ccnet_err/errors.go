// pkg/ccnet_err/errors.go

package ccnet_err

import (
	cerr "github.com/cockroachdb/errors"
)

// ErrInvalidArgument marks a required input that was absent. It signals a
// contract violation by the caller and is never retried.
var ErrInvalidArgument = cerr.New("invalid argument")

// InvalidArgument returns an error matching ErrInvalidArgument that names the
// missing parameter.
func InvalidArgument(name string) error {
	return cerr.WithHint(
		cerr.Wrapf(ErrInvalidArgument, "%s must not be nil", name),
		"this is an integration bug in the caller, not a build failure",
	)
}

// IsInvalidArgument reports whether err carries ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return cerr.Is(err, ErrInvalidArgument)
}
