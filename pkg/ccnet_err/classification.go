// pkg/ccnet_err/classification.go
//
// Error classification with exit codes for the ccnetlog CLI.

package ccnet_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - bad flags, config or event streams (exit 2)
	CategoryValidation
	// CategoryInternal - bugs in ccnetlog itself (exit 3)
	CategoryInternal
	// CategoryPermission - permission denied (exit 1)
	CategoryPermission
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySystem:
		return "system"
	case CategoryValidation:
		return "validation"
	case CategoryInternal:
		return "internal"
	case CategoryPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf("\n\nCause: %v", e.Cause))
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// GetExitCode extracts exit code from any error
// Returns 0 for nil, appropriate code for classified errors, 1 for others
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}

	// A nil event or nil text reaching the core is an integration bug.
	if IsInvalidArgument(err) {
		return 3
	}

	return 1
}

// NewValidationError creates an error for input validation failures
func NewValidationError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewFilesystemError creates an error for filesystem issues
func NewFilesystemError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategorySystem,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewPermissionError creates an error for permission issues
func NewPermissionError(resource, operation string, cause error) error {
	return &ClassifiedError{
		Category: CategoryPermission,
		Message:  fmt.Sprintf("Permission denied: cannot %s %s", operation, resource),
		Cause:    cause,
		Remediation: []string{
			"Check the permissions of the report directory",
			"Pass a writable destination as the first logger parameter",
		},
	}
}

// NewInternalError creates an error for ccnetlog bugs
func NewInternalError(message string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
		Remediation: []string{
			"This is likely a bug in ccnetlog",
			"Rerun with --debug and include the output when reporting it",
		},
	}
}

// ClassifyError wraps an unclassified error based on its message. Errors that
// are already classified are returned unchanged.
func ClassifyError(err error, context string) error {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return err
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "permission denied"):
		return NewPermissionError(context, "access", err)

	case strings.Contains(errStr, "no such file"),
		strings.Contains(errStr, "not found"),
		strings.Contains(errStr, "does not exist"):
		return NewFilesystemError(
			fmt.Sprintf("%s: resource not found", context),
			err,
			"Check that the path exists",
		)

	case strings.Contains(errStr, "invalid"),
		strings.Contains(errStr, "malformed"),
		strings.Contains(errStr, "unknown"):
		return NewValidationError(
			fmt.Sprintf("%s: validation failed", context),
			err,
			"Check the input format",
			"Review command syntax with: ccnetlog help",
		)

	default:
		return NewFilesystemError(fmt.Sprintf("%s failed", context), err)
	}
}
