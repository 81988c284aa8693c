// pkg/ccnetlogger/logger.go

// Package ccnetlogger is the build logger: it subscribes to an event
// source, aggregates everything raised during the build and writes one
// CruiseControl.NET report when the build ends.
package ccnetlogger

import (
	"context"
	"sync"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/aggregator"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/config"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/replay"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/report"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/sink"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/verbosity"
)

var (
	ErrNotInitialized  = cerr.New("logger not initialized")
	ErrAlreadyShutdown = cerr.New("logger already shut down")
)

// Result describes the report written at shutdown.
type Result struct {
	Destination string           `json:"destination"`
	Totals      report.Totals    `json:"totals"`
	Stats       aggregator.Stats `json:"stats"`
}

type Logger struct {
	destination string
	level       verbosity.Level
	aggOpts     []aggregator.Option

	mu       sync.Mutex
	agg      *aggregator.Aggregator
	shutdown bool
}

type Option func(*Logger)

// WithAggregatorOptions passes options through to the aggregator created
// by Initialize.
func WithAggregatorOptions(opts ...aggregator.Option) Option {
	return func(l *Logger) { l.aggOpts = append(l.aggOpts, opts...) }
}

// New creates a logger writing to the file named by parameters (see
// config.ParseDestination) at the given verbosity.
func New(parameters string, level verbosity.Level, opts ...Option) *Logger {
	l := &Logger{
		destination: config.ParseDestination(parameters),
		level:       level,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Destination is the report path resolved from the parameters.
func (l *Logger) Destination() string { return l.destination }

// Initialize starts a new run and subscribes to src. src may be nil when
// events are fed through Handle directly.
func (l *Logger) Initialize(src replay.Source) {
	l.mu.Lock()
	l.agg = aggregator.New(l.level, l.aggOpts...)
	l.shutdown = false
	l.mu.Unlock()

	if src != nil {
		src.Subscribe(l)
	}
}

func (l *Logger) current() (*aggregator.Aggregator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.shutdown:
		return nil, ErrAlreadyShutdown
	case l.agg == nil:
		return nil, ErrNotInitialized
	}
	return l.agg, nil
}

// Handle routes one event into the run. It is safe for concurrent use.
func (l *Logger) Handle(ev buildevent.Event) error {
	agg, err := l.current()
	if err != nil {
		return err
	}
	if ps, ok := ev.(*buildevent.ProjectStarted); ok {
		if ps == nil {
			return ccnet_err.InvalidArgument("project started event")
		}
		agg.ProjectStarted(ps.ProjectFile)
		return nil
	}
	return agg.Dispatch(ev)
}

// Shutdown assembles the report and hands it to dst. A logger writes one
// report per run; calling Shutdown again returns ErrAlreadyShutdown.
func (l *Logger) Shutdown(ctx context.Context, dst sink.Sink) (Result, error) {
	if dst == nil {
		return Result{}, ccnet_err.InvalidArgument("sink")
	}

	l.mu.Lock()
	if l.shutdown {
		l.mu.Unlock()
		return Result{}, ErrAlreadyShutdown
	}
	if l.agg == nil {
		l.mu.Unlock()
		return Result{}, ErrNotInitialized
	}
	agg := l.agg
	l.shutdown = true
	l.agg = nil
	l.mu.Unlock()

	doc, totals, err := report.Assemble(agg)
	if err != nil {
		return Result{}, err
	}
	res := Result{Destination: l.destination, Totals: totals, Stats: agg.Stats()}

	otelzap.Ctx(ctx).Debug("Report assembled",
		zap.Int("projects", totals.Projects),
		zap.Int("errors", totals.Errors),
		zap.Int("warnings", totals.Warnings),
		zap.Int("messages", totals.Messages),
		zap.Uint64("dropped", res.Stats.Dropped))

	if err := dst.Write(ctx, doc); err != nil {
		return res, cerr.Wrap(err, "write report")
	}
	return res, nil
}

// FileSink is the sink for the destination resolved from the parameters.
func (l *Logger) FileSink() *sink.File {
	return sink.NewFile(l.destination)
}
