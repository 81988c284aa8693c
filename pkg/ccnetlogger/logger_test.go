package ccnetlogger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/aggregator"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/eventstream"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/replay"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/sink"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/verbosity"
)

const build = `{"kind":"project_started","project":"C:\\src\\app\\app.csproj","node":1}
{"kind":"project_started","project":"C:\\src\\lib\\lib.csproj","node":2}
{"kind":"error","project":"C:\\src\\lib\\lib.csproj","code":"CS0246","message":"type not found","file":"C:\\src\\lib\\A.cs","line":4,"column":2,"node":2}
{"kind":"warning","project":"C:\\src\\app\\app.csproj","code":"CS0168","message":"unused","file":"Program.cs","line":1,"column":1,"node":1}
{"kind":"message","project":"C:\\src\\app\\app.csproj","importance":"high","message":"Building app","node":1}
{"kind":"message","project":"C:\\src\\app\\app.csproj","importance":"low","message":"noise","node":1}
{"kind":"error","message":"no project","node":0}
`

func TestDestination(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "msbuild-output.xml", New("", verbosity.Unset).Destination())
	assert.Equal(t, "ci/out.xml", New("ci/out.xml;extra", verbosity.Unset).Destination())
}

func TestReplayRun(t *testing.T) {
	t.Parallel()

	events, err := eventstream.Decode(strings.NewReader(build), eventstream.FormatNDJSON)
	require.NoError(t, err)

	l := New("", verbosity.Minimal, WithAggregatorOptions(aggregator.WithShards(2)))
	p := replay.NewPlayer(events, 3)
	l.Initialize(p)
	require.NoError(t, p.Run(context.Background()))

	var buf bytes.Buffer
	res, err := l.Shutdown(context.Background(), sink.Writer{W: &buf})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Totals.Errors)
	assert.Equal(t, 1, res.Totals.Warnings)
	assert.Equal(t, 1, res.Totals.Messages)
	assert.Equal(t, 3, res.Totals.Projects)
	assert.Equal(t, uint64(1), res.Stats.Dropped)

	out := buf.String()
	assert.Contains(t, out, `<msbuild warning_count="1" error_count="2">`)
	assert.Contains(t, out, `<project dir="" name="MSBuild">`)
	assert.Contains(t, out, `<message importance="High">Building app</message>`)
	assert.NotContains(t, out, "noise")
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	l := New("", verbosity.Unset)
	err := l.Handle(&buildevent.Error{})
	assert.True(t, cerr.Is(err, ErrNotInitialized))

	_, err = l.Shutdown(context.Background(), sink.Writer{W: &bytes.Buffer{}})
	assert.True(t, cerr.Is(err, ErrNotInitialized))

	l.Initialize(nil)
	require.NoError(t, l.Handle(&buildevent.ProjectStarted{Header: buildevent.Header{ProjectFile: "a.proj"}}))
	require.NoError(t, l.Handle(&buildevent.Warning{Header: buildevent.Header{ProjectFile: "a.proj"}}))

	_, err = l.Shutdown(context.Background(), nil)
	assert.True(t, ccnet_err.IsInvalidArgument(err))

	res, err := l.Shutdown(context.Background(), sink.Writer{W: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Totals.Warnings)

	_, err = l.Shutdown(context.Background(), sink.Writer{W: &bytes.Buffer{}})
	assert.True(t, cerr.Is(err, ErrAlreadyShutdown))

	err = l.Handle(&buildevent.Error{})
	assert.True(t, cerr.Is(err, ErrAlreadyShutdown))
}

func TestHandleNil(t *testing.T) {
	t.Parallel()

	l := New("", verbosity.Unset)
	l.Initialize(nil)
	assert.True(t, ccnet_err.IsInvalidArgument(l.Handle(nil)))
	assert.True(t, ccnet_err.IsInvalidArgument(l.Handle((*buildevent.ProjectStarted)(nil))))
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "out", "report.xml")
	l := New(dest+";ignored", verbosity.Unset)
	l.Initialize(nil)
	require.NoError(t, l.Handle(&buildevent.Error{Code: buildevent.String("E1")}))

	res, err := l.Shutdown(context.Background(), l.FileSink())
	require.NoError(t, err)
	assert.Equal(t, dest, res.Destination)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<error code="E1" message=""></error>`)
}
