// pkg/ccnet_err/wrap.go

package ccnet_err

import (
	cerr "github.com/cockroachdb/errors"
)

func WrapValidationError(err error) error {
	return cerr.WithHint(cerr.WithStack(err), "validation failed")
}

func WrapDecodeError(err error, source string) error {
	if err == nil {
		return nil
	}
	return cerr.WithHint(cerr.Wrapf(err, "decode %s", source), "check the recorded event stream format")
}
