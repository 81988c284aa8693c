package verbosity

import (
	"testing"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmits_Table(t *testing.T) {
	t.Parallel()

	high, normal, low := buildevent.ImportanceHigh, buildevent.ImportanceNormal, buildevent.ImportanceLow
	tests := []struct {
		level Level
		imp   buildevent.Importance
		want  bool
	}{
		{Quiet, high, false},
		{Quiet, normal, false},
		{Quiet, low, false},
		{Minimal, high, true},
		{Minimal, normal, false},
		{Minimal, low, false},
		{Normal, high, true},
		{Normal, normal, false},
		{Normal, low, false},
		{Detailed, high, true},
		{Detailed, normal, true},
		{Detailed, low, false},
		{Diagnostic, high, true},
		{Diagnostic, normal, true},
		{Diagnostic, low, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.imp.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Admits(tt.level, tt.imp))
		})
	}
}

func TestAdmits_UnsetAdmitsEverything(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{Unset, Level(42)} {
		for _, imp := range []buildevent.Importance{buildevent.ImportanceHigh, buildevent.ImportanceNormal, buildevent.ImportanceLow} {
			assert.True(t, Admits(level, imp), "%v/%v", level, imp)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Level
	}{
		{"", Unset},
		{"q", Quiet},
		{"Quiet", Quiet},
		{"m", Minimal},
		{"MINIMAL", Minimal},
		{"n", Normal},
		{" normal ", Normal},
		{"d", Detailed},
		{"detailed", Detailed},
		{"diag", Diagnostic},
		{"Diagnostic", Diagnostic},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	got, err := Parse("verbose")
	assert.ErrorIs(t, err, ErrUnknownLevel)
	assert.Equal(t, Unset, got)
}
