package buildevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKinds(t *testing.T) {
	t.Parallel()

	events := []Event{
		&ProjectStarted{Header: Header{ProjectFile: "a.csproj"}},
		&Error{Header: Header{ProjectFile: "b.csproj"}},
		&Warning{},
		&Message{Header: Header{ProjectFile: "d.csproj"}},
	}
	want := []Kind{KindProjectStarted, KindError, KindWarning, KindMessage}

	for i, ev := range events {
		assert.Equal(t, want[i], ev.Kind())
	}
	assert.Equal(t, "a.csproj", events[0].Project())
	assert.Equal(t, "", events[2].Project())
	assert.Equal(t, "warning", KindWarning.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestParseImportance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Importance
	}{
		{in: "High", want: ImportanceHigh},
		{in: "normal", want: ImportanceNormal},
		{in: " LOW ", want: ImportanceLow},
	}

	for _, tt := range tests {
		got, err := ParseImportance(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, got, mustParse(t, got.String()), "label must parse back")
	}

	_, err := ParseImportance("critical")
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) Importance {
	t.Helper()
	i, err := ParseImportance(s)
	require.NoError(t, err)
	return i
}
