package aggregator

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/verbosity"
)

func errorIn(project, code string) *buildevent.Error {
	return &buildevent.Error{
		Header:  buildevent.Header{ProjectFile: project},
		Code:    buildevent.String(code),
		Message: buildevent.String("failed"),
	}
}

func messageIn(project string, imp buildevent.Importance) *buildevent.Message {
	return &buildevent.Message{
		Header:     buildevent.Header{ProjectFile: project},
		Message:    buildevent.String("note"),
		Importance: imp,
	}
}

func TestDispatchNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   buildevent.Event
	}{
		{"nil interface", nil},
		{"nil error", (*buildevent.Error)(nil)},
		{"nil warning", (*buildevent.Warning)(nil)},
		{"nil message", (*buildevent.Message)(nil)},
		{"nil project started", (*buildevent.ProjectStarted)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := New(verbosity.Unset)
			err := a.Dispatch(tt.ev)
			require.Error(t, err)
			assert.True(t, ccnet_err.IsInvalidArgument(err))
			assert.Equal(t, Stats{}, a.Stats(), "rejected events are neither counted nor create projects")
		})
	}
}

func TestBlankIdentityGroupsUnderMSBuild(t *testing.T) {
	t.Parallel()

	a := New(verbosity.Unset)
	require.NoError(t, a.Dispatch(errorIn("", "E1")))
	require.NoError(t, a.Dispatch(errorIn("   ", "E2")))
	require.NoError(t, a.Dispatch(messageIn("", buildevent.ImportanceLow)))

	projects := a.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "MSBuild", projects[0].File())
	assert.Equal(t, 2, projects[0].ErrorCount())
	assert.Equal(t, 1, projects[0].MessageCount())
}

func TestProjectStartedCreatesEmptyProject(t *testing.T) {
	t.Parallel()

	a := New(verbosity.Unset)
	require.NoError(t, a.Dispatch(&buildevent.ProjectStarted{Header: buildevent.Header{ProjectFile: "a.proj"}}))
	p := a.ProjectStarted("a.proj")

	assert.Equal(t, uint64(1), a.Stats().Projects)
	assert.Same(t, p, a.Projects()[0])
	assert.Zero(t, p.ErrorCount())
}

func TestProjectsInCreationOrder(t *testing.T) {
	t.Parallel()

	a := New(verbosity.Unset, WithShards(4))
	want := []string{"z.proj", "a.proj", "m.proj", "b.proj", "y.proj"}
	for _, f := range want {
		a.ProjectStarted(f)
	}
	// Revisiting an existing project does not move it.
	require.NoError(t, a.Dispatch(errorIn("z.proj", "E1")))

	var got []string
	for _, p := range a.Projects() {
		got = append(got, p.File())
	}
	assert.Equal(t, want, got)
}

func TestMessageAdmission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   verbosity.Level
		kept    int
		dropped uint64
	}{
		{verbosity.Quiet, 0, 3},
		{verbosity.Minimal, 1, 2},
		{verbosity.Normal, 1, 2},
		{verbosity.Detailed, 2, 1},
		{verbosity.Diagnostic, 3, 0},
		{verbosity.Unset, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()

			a := New(tt.level)
			for _, imp := range []buildevent.Importance{buildevent.ImportanceHigh, buildevent.ImportanceNormal, buildevent.ImportanceLow} {
				require.NoError(t, a.Dispatch(messageIn("a.proj", imp)))
			}
			// Errors and warnings bypass the policy at every level.
			require.NoError(t, a.Dispatch(errorIn("a.proj", "E1")))
			require.NoError(t, a.Dispatch(&buildevent.Warning{Header: buildevent.Header{ProjectFile: "a.proj"}}))

			stats := a.Stats()
			assert.Equal(t, tt.dropped, stats.Dropped)
			assert.Equal(t, uint64(5), stats.Dispatched)

			var kept int
			for _, p := range a.Projects() {
				kept += p.MessageCount()
				assert.Equal(t, 1, p.ErrorCount())
				assert.Equal(t, 1, p.WarningCount())
			}
			assert.Equal(t, tt.kept, kept)
		})
	}
}

func TestConcurrentDispatchPreservesCounts(t *testing.T) {
	t.Parallel()

	const (
		goroutines = 32
		projects   = 10
		perProject = 50
	)
	a := New(verbosity.Diagnostic, WithShards(3))

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < projects*perProject; i++ {
				file := fmt.Sprintf(`C:\src\p%d.csproj`, (i+g)%projects)
				assert.NoError(t, a.Dispatch(errorIn(file, "E")))
				assert.NoError(t, a.Dispatch(&buildevent.Warning{Header: buildevent.Header{ProjectFile: file}}))
				assert.NoError(t, a.Dispatch(messageIn(file, buildevent.ImportanceLow)))
			}
		}(g)
	}
	wg.Wait()

	all := a.Projects()
	require.Len(t, all, projects)

	seen := make(map[string]bool)
	var errs, warns, msgs int
	for i, p := range all {
		assert.False(t, seen[p.File()], "duplicate project %s", p.File())
		seen[p.File()] = true
		assert.Equal(t, uint64(i), p.Seq())
		errs += p.ErrorCount()
		warns += p.WarningCount()
		msgs += p.MessageCount()
	}
	total := goroutines * projects * perProject
	assert.Equal(t, total, errs)
	assert.Equal(t, total, warns)
	assert.Equal(t, total, msgs)

	stats := a.Stats()
	assert.Equal(t, uint64(3*total), stats.Admitted)
	assert.Equal(t, uint64(projects), stats.Projects)
}

func TestConcurrentProjectStartedSingleInstance(t *testing.T) {
	t.Parallel()

	a := New(verbosity.Unset)
	const n = 64
	got := make([]any, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = a.ProjectStarted("shared.proj")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, uint64(1), a.Stats().Projects)
}
