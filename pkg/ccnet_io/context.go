// pkg/ccnet_io/context.go

package ccnet_io

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/telemetry"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// RuntimeContext carries what one command invocation needs: a traced
// context, a logger scoped to the command, and attributes for the final span.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	TraceID    string
	Attributes map[string]string
}

// NewContext sets up tracing and logging for cmdName.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, span := telemetry.Start(parent, cmdName)

	traceID := logger.GenerateTraceID()
	if sc := span.SpanContext(); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	log := logger.L().With(
		zap.String("command", cmdName),
		zap.String("trace_id", traceID),
		zap.String("run_id", telemetry.RunID()),
	).Named(cmdName)

	// otelzap.Ctx(ctx) inside the IO packages logs through this logger with
	// the active span attached.
	otelzap.ReplaceGlobals(otelzap.New(log))

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        log,
		Timestamp:  time.Now(),
		Command:    cmdName,
		TraceID:    traceID,
		Attributes: make(map[string]string),
	}
}

// Child starts a span for one phase of the command.
func (rc *RuntimeContext) Child(name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return telemetry.Start(rc.Ctx, rc.Command+"."+name, attrs...)
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = ccnet_err.NewInternalError("unexpected panic", panicError(r))
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End records the outcome on the command span and ends it. Logging the
// outcome is left to logger.LogCommandLifecycle.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)
	success := err == nil
	if !success {
		rc.Span.RecordError(err)
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("args", telemetry.TruncateArgs(os.Args[1:])),
		attribute.String("version", Version),
		attribute.String("run_id", telemetry.RunID()),
		attribute.String("error_type", classifyError(err)),
		attribute.Int("exit_code", ccnet_err.GetExitCode(err)),
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if ccnet_err.IsExpectedUserError(err) {
		return "user"
	}
	return "system"
}
