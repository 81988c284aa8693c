// pkg/ccnet_io/panic.go

package ccnet_io

import (
	cerr "github.com/cockroachdb/errors"
)

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return cerr.WithAssertionFailure(err)
	}
	return cerr.AssertionFailedf("panic: %v", r)
}
