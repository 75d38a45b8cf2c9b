package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// isolate runs the test in an empty working directory with every CLIPDUR_*
// variable unset, restoring both afterwards.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{EnvConfig, EnvLog, EnvFormat, EnvDecoder, EnvReadPolicy, EnvConcurrency} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Format != "tsv" {
		t.Errorf("Format = %q, want tsv", cfg.Format)
	}
	if cfg.Decoder != "frames" {
		t.Errorf("Decoder = %q, want frames", cfg.Decoder)
	}
	if cfg.ReadPolicy != "abort" {
		t.Errorf("ReadPolicy = %q, want abort", cfg.ReadPolicy)
	}
	if !slices.Equal(cfg.Extensions, []string{".mp3"}) {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
	if cfg.BufferSize != 1_000_000 {
		t.Errorf("BufferSize = %d", cfg.BufferSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing dir", func(c *Config) { c.Dir = "" }, true},
		{"bad format", func(c *Config) { c.Format = "csv" }, true},
		{"format case-insensitive", func(c *Config) { c.Format = "SQLite" }, false},
		{"bad read policy", func(c *Config) { c.ReadPolicy = "retry" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"no extensions", func(c *Config) { c.Extensions = nil }, true},
		{"negative buffer", func(c *Config) { c.BufferSize = -1 }, true},
		{"unbounded concurrency", func(c *Config) { c.Concurrency = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Dir = "/clips"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{
		"-format", "lines", "-o", "/tmp/out.txt", "-ext", "mp3, mp2", "-decoder", "header",
		"-read-policy", "skip", "-j", "-1", "-buffer", "16", "-log-level", "debug", "-log-json",
		"/clips",
	}, nil)
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	want := Config{
		Dir:         "/clips",
		Output:      "/tmp/out.txt",
		Format:      "lines",
		Extensions:  []string{"mp3", "mp2"},
		Decoder:     "header",
		ReadPolicy:  "skip",
		Concurrency: -1,
		BufferSize:  16,
		LogLevel:    "debug",
		LogJSON:     true,
	}
	if !equalConfig(cfg, want) {
		t.Errorf("ParseFlags() = %+v, want %+v", cfg, want)
	}
}

func TestParseFlags_PositionalArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"none", nil, true},
		{"two", []string{"a", "b"}, true},
		{"one", []string{"a"}, false},
		{"version needs none", []string{"-version"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ParseFlags(&cfg, tt.args, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("ParseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), "Usage: clipdur [flags] <dir>") {
		t.Errorf("usage should be written to the given writer, got %q", out.String())
	}
}

func TestParseFlags_UnknownFlagReportedToWriter(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	if err := ParseFlags(&cfg, []string{"-bogus", "/clips"}, &out); err == nil {
		t.Fatal("ParseFlags() should reject an unknown flag")
	}
	if !strings.Contains(out.String(), "bogus") {
		t.Errorf("flag error should be written to the given writer, got %q", out.String())
	}
}

func TestLoad_ReportsUsageOnce(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	if _, err := Load([]string{"-h"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Load(-h) error = %v, want flag.ErrHelp", err)
	}
	if n := strings.Count(out.String(), "Usage:"); n != 1 {
		t.Errorf("usage printed %d times, want 1", n)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLog:         "trace",
		EnvFormat:      "sqlite",
		EnvDecoder:     "header",
		EnvReadPolicy:  "skip",
		EnvConcurrency: " 12 ",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.LogLevel != "trace" || cfg.Format != "sqlite" || cfg.Decoder != "header" ||
		cfg.ReadPolicy != "skip" || cfg.Concurrency != 12 {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}

	env[EnvConcurrency] = "many"
	if err := ApplyEnv(&cfg, lookup); err == nil {
		t.Error("ApplyEnv() should reject a non-integer concurrency")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipdur.yaml")
	yamlData := "format: lines\nextensions: [mp3, wav]\nconcurrency: 3\n"
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Format != "lines" || cfg.Concurrency != 3 || !slices.Equal(cfg.Extensions, []string{"mp3", "wav"}) {
		t.Errorf("LoadFile() = %+v", cfg)
	}
	if cfg.Decoder != "frames" {
		t.Errorf("keys absent from the file should keep defaults, Decoder = %q", cfg.Decoder)
	}

	if err := LoadFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
	if err := os.WriteFile(path, []byte("format: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(&cfg, path); err == nil {
		t.Error("LoadFile() should fail for malformed YAML")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "clipdur.yaml")
	yamlData := "format: lines\ndecoder: header\nconcurrency: 3\nlog_level: warn\n"
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFormat, "sqlite")

	cfg, err := Load([]string{"-config", path, "-decoder", "frames", "/clips"}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Format != "sqlite" {
		t.Errorf("environment should override the file, Format = %q", cfg.Format)
	}
	if cfg.Decoder != "frames" {
		t.Errorf("flags should override the file, Decoder = %q", cfg.Decoder)
	}
	if cfg.Concurrency != 3 || cfg.LogLevel != "warn" {
		t.Errorf("file values should survive, got concurrency=%d log=%q", cfg.Concurrency, cfg.LogLevel)
	}
	if cfg.ReadPolicy != "abort" {
		t.Errorf("defaults should survive, ReadPolicy = %q", cfg.ReadPolicy)
	}
	if cfg.Dir != "/clips" {
		t.Errorf("Dir = %q", cfg.Dir)
	}
}

func TestLoad_ConfigFromEnvironment(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "from-env.yaml")
	if err := os.WriteFile(path, []byte("read_policy: skip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load([]string{"/clips"}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ReadPolicy != "skip" {
		t.Errorf("ReadPolicy = %q, want skip", cfg.ReadPolicy)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	t.Cleanup(func() { os.Unsetenv(EnvDecoder) })

	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte(EnvDecoder+"=header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"/clips"}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Decoder != "header" {
		t.Errorf("Decoder = %q, want header from .env", cfg.Decoder)
	}
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)

	if _, err := Load([]string{"-format", "csv", "/clips"}, nil); err == nil {
		t.Error("Load() should reject an unknown format")
	}
	if _, err := Load(nil, nil); err == nil {
		t.Error("Load() should require a directory")
	}
	if _, err := Load([]string{"-config", "missing.yaml", "/clips"}, nil); err == nil {
		t.Error("Load() should fail when the config file is missing")
	}
}

func TestLoad_Version(t *testing.T) {
	isolate(t)

	cfg, err := Load([]string{"-V"}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.ShowVersion {
		t.Error("ShowVersion should be set")
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = "/clips"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := len(cfg.Options()); got != 6 {
		t.Errorf("Options() returned %d options, want 6", got)
	}
}

func equalConfig(a, b Config) bool {
	return a.Dir == b.Dir && a.Output == b.Output && a.Format == b.Format &&
		slices.Equal(a.Extensions, b.Extensions) && a.Decoder == b.Decoder &&
		a.ReadPolicy == b.ReadPolicy && a.Concurrency == b.Concurrency &&
		a.BufferSize == b.BufferSize && a.LogLevel == b.LogLevel && a.LogJSON == b.LogJSON
}
