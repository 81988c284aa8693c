package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
)

func TestParseDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{"empty", "", "msbuild-output.xml"},
		{"path only", `C:\ci\out.xml`, `C:\ci\out.xml`},
		{"extra segments ignored", "out.xml;verbose;foo=bar", "out.xml"},
		{"blank first segment", ";out.xml", "msbuild-output.xml"},
		{"whitespace first segment", "   ;x", "msbuild-output.xml"},
		{"trailing separator", "reports/a.xml;", "reports/a.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseDestination(tt.in))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	v.Set(KeyEvents, "build.ndjson")

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "auto", s.Format)
	assert.Equal(t, DefaultWorkers, s.Workers)
	assert.Equal(t, 32, s.Shards)
	assert.Equal(t, DefaultDestination, s.Destination())
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  map[string]any
	}{
		{"missing events", map[string]any{}},
		{"bad format", map[string]any{KeyEvents: "a", KeyFormat: "xml"}},
		{"zero workers", map[string]any{KeyEvents: "a", KeyWorkers: 0}},
		{"too many workers", map[string]any{KeyEvents: "a", KeyWorkers: 5000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			SetDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.Error(t, err)
			assert.Equal(t, 2, ccnet_err.GetExitCode(err))
		})
	}
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ccnetlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events: build.yaml\nworkers: 8\nverbosity: detailed\n"), 0o600))

	v := viper.New()
	SetDefaults(v)
	require.NoError(t, ReadConfigFile(v, path))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "build.yaml", s.Events)
	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, "detailed", s.Verbosity)

	assert.NoError(t, ReadConfigFile(v, ""))
	assert.Error(t, ReadConfigFile(v, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CCNETLOG_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CCNETLOG_TEST_ONLY_KEY") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("CCNETLOG_TEST_ONLY_KEY"))

	assert.NoError(t, LoadEnvFile(""))
	err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Equal(t, 2, ccnet_err.GetExitCode(err))
}
