// pkg/config/config.go

// Package config resolves the settings of a conversion run from flags,
// CCNETLOG_* environment variables, an optional .env file and an optional
// config file, in that order of precedence.
package config

import (
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
)

const (
	// EnvPrefix namespaces every environment variable ccnetlog reads.
	EnvPrefix = "CCNETLOG"

	// DefaultDestination is where the report goes when the logger
	// parameters name no file.
	DefaultDestination = "msbuild-output.xml"

	DefaultWorkers = 4
)

// Keys shared by flags, env and config files.
const (
	KeyEvents     = "events"
	KeyFormat     = "format"
	KeyParameters = "parameters"
	KeyVerbosity  = "verbosity"
	KeyWorkers    = "workers"
	KeyStdout     = "stdout"
	KeyShards     = "shards"
)

// Settings drive the convert command.
type Settings struct {
	Events     string `mapstructure:"events" validate:"required"`
	Format     string `mapstructure:"format" validate:"oneof=auto ndjson jsonl json yaml yml msgpack mp msgp"`
	Parameters string `mapstructure:"parameters"`
	Verbosity  string `mapstructure:"verbosity"`
	Workers    int    `mapstructure:"workers" validate:"min=1,max=1024"`
	Shards     int    `mapstructure:"shards" validate:"min=1,max=4096"`
	Stdout     bool   `mapstructure:"stdout"`
}

// Destination is the report path derived from Parameters.
func (s Settings) Destination() string {
	return ParseDestination(s.Parameters)
}

// ParseDestination returns the report path named by logger parameters.
// Only the text before the first ';' is used; a blank path selects
// DefaultDestination.
func ParseDestination(parameters string) string {
	first, _, _ := strings.Cut(parameters, ";")
	if strings.TrimSpace(first) == "" {
		return DefaultDestination
	}
	return first
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormat, "auto")
	v.SetDefault(KeyWorkers, DefaultWorkers)
	v.SetDefault(KeyShards, 32)
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. An empty path is a
// no-op.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return ccnet_err.NewValidationError("env file could not be loaded",
			cerr.Wrapf(err, "load %s", path),
			"Check that the file exists and contains KEY=VALUE lines")
	}
	return nil
}

// ReadConfigFile merges a yaml, toml or json file into v. An empty path is
// a no-op.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return ccnet_err.ClassifyError(err, "config file "+path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ccnet_err.NewValidationError("config file could not be parsed",
			cerr.Wrapf(err, "read %s", path))
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, ccnet_err.NewValidationError("settings could not be decoded", err)
	}
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func Validate(s Settings) error {
	if err := validator.New().Struct(s); err != nil {
		return ccnet_err.NewValidationError("invalid settings",
			ccnet_err.WrapValidationError(err),
			"Run 'ccnetlog convert --help' for accepted values")
	}
	return nil
}
