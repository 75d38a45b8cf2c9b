// Package config resolves clipdur's runtime settings from defaults, a .env
// file, an optional YAML file, CLIPDUR_* environment variables and flags,
// in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/clipdur"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig      = "CLIPDUR_CONFIG"
	EnvLog         = "CLIPDUR_LOG"
	EnvFormat      = "CLIPDUR_FORMAT"
	EnvDecoder     = "CLIPDUR_DECODER"
	EnvReadPolicy  = "CLIPDUR_READ_POLICY"
	EnvConcurrency = "CLIPDUR_CONCURRENCY"
)

// DotEnvFile is loaded from the working directory when present.
const DotEnvFile = ".env"

// Config holds all runtime settings.
type Config struct {
	// Dir is the clip directory (the single positional argument).
	Dir string `yaml:"-"`

	// Output overrides the record store path. Empty places the format's
	// default file next to Dir.
	Output string `yaml:"output"`
	Format string `yaml:"format"` // Default: "tsv".

	Extensions  []string `yaml:"extensions"`  // Default: [".mp3"].
	Decoder     string   `yaml:"decoder"`     // Default: "frames".
	ReadPolicy  string   `yaml:"read_policy"` // Default: "abort".
	Concurrency int      `yaml:"concurrency"` // 0 = 8 per CPU, negative = unbounded.
	BufferSize  int      `yaml:"buffer_size"` // Default: 1,000,000.

	LogLevel string `yaml:"log_level"` // Default: "info".
	LogJSON  bool   `yaml:"log_json"`

	// Set from flags only.
	ConfigFile  string `yaml:"-"`
	ShowVersion bool   `yaml:"-"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Format:     string(clipdur.FormatTSV),
		Extensions: append([]string(nil), clipdur.DefaultExtensions...),
		Decoder:    clipdur.DefaultDecoder,
		ReadPolicy: string(clipdur.ReadAbort),
		BufferSize: clipdur.DefaultBufferSize,
		LogLevel:   "info",
	}
}

// Load builds the effective configuration for args (without the program
// name). Usage and flag errors go to out.
func Load(args []string, out io.Writer) (Config, error) {
	// First pass only discovers -config and -version; flags are applied
	// again last so they win over the file and the environment.
	first := DefaultConfig()
	if err := ParseFlags(&first, args, out); err != nil {
		return first, err
	}
	if first.ShowVersion {
		return first, nil
	}

	if err := LoadDotEnv(DotEnvFile); err != nil {
		return first, err
	}

	cfg := DefaultConfig()
	path := first.ConfigFile
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	// Errors were already reported by the first pass.
	if err := ParseFlags(&cfg, args, nil); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv exports the variables in path without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadFile merges the YAML file at path into cfg. Keys absent from the file
// keep their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from CLIPDUR_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLog); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		cfg.Format = v
	}
	if v, ok := lookup(EnvDecoder); ok && v != "" {
		cfg.Decoder = v
	}
	if v, ok := lookup(EnvReadPolicy); ok && v != "" {
		cfg.ReadPolicy = v
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvConcurrency, v)
		}
		cfg.Concurrency = n
	}
	return nil
}

// Validate checks enum fields and the directory argument.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("need exactly one clip directory")
	}
	if _, err := clipdur.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := clipdur.ParseReadPolicy(c.ReadPolicy); err != nil {
		return err
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q (use trace, debug, info, warn, error or off)", c.LogLevel)
	}
	if len(c.Extensions) == 0 {
		return errors.New("no clip extensions configured")
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("invalid buffer size %d", c.BufferSize)
	}
	return nil
}

// Options converts the configuration into scan options. Validate must have
// succeeded first.
func (c *Config) Options() []clipdur.Option {
	format, _ := clipdur.ParseFormat(c.Format)
	policy, _ := clipdur.ParseReadPolicy(c.ReadPolicy)
	return []clipdur.Option{
		clipdur.WithDecoderName(c.Decoder),
		clipdur.WithExtensions(c.Extensions...),
		clipdur.WithReadPolicy(policy),
		clipdur.WithConcurrency(c.Concurrency),
		clipdur.WithBufferSize(c.BufferSize),
		clipdur.WithOutput(format, c.Output),
	}
}
