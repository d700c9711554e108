// Package config defines the immutable input of a tracing session and its
// YAML representation.
//
// A TracingConfig is produced by the caller (or loaded from a file with
// Load / LoadFile) and then handed to the controller by value. Neither the
// controller nor any agent mutates it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Chrome record modes understood by the chrome tracing agent.
const (
	RecordUntilFull         = "record-until-full"
	RecordContinuously      = "record-continuously"
	RecordAsMuchAsPossible  = "record-as-much-as-possible"
	DefaultChromeRecordMode = RecordUntilFull
)

// ChromeTraceConfig is the browser-side part of a tracing session.
type ChromeTraceConfig struct {
	RecordMode         string   `yaml:"record_mode" json:"record_mode"`
	IncludedCategories []string `yaml:"included_categories,omitempty" json:"included_categories,omitempty"`
	ExcludedCategories []string `yaml:"excluded_categories,omitempty" json:"excluded_categories,omitempty"`
	EnableSystrace     bool     `yaml:"enable_systrace" json:"enable_systrace"`
}

// Clone returns a deep copy so callers cannot alias the category slices.
func (c ChromeTraceConfig) Clone() ChromeTraceConfig {
	out := c
	out.IncludedCategories = append([]string(nil), c.IncludedCategories...)
	out.ExcludedCategories = append([]string(nil), c.ExcludedCategories...)
	return out
}

// TracingConfig selects the agent categories enabled for one session.
type TracingConfig struct {
	EnableChromeTrace          bool              `yaml:"enable_chrome_trace" json:"enable_chrome_trace"`
	EnableAtraceTrace          bool              `yaml:"enable_atrace_trace" json:"enable_atrace_trace"`
	EnableCPUTrace             bool              `yaml:"enable_cpu_trace" json:"enable_cpu_trace"`
	EnablePlatformDisplayTrace bool              `yaml:"enable_platform_display_trace" json:"enable_platform_display_trace"`
	EnableTelemetryTrace       bool              `yaml:"enable_telemetry_trace" json:"enable_telemetry_trace"`
	ChromeTraceConfig          ChromeTraceConfig `yaml:"chrome_trace_config" json:"chrome_trace_config"`
}

// AnyEnabled reports whether at least one agent category is switched on.
func (c TracingConfig) AnyEnabled() bool {
	return c.EnableChromeTrace || c.EnableAtraceTrace || c.EnableCPUTrace ||
		c.EnablePlatformDisplayTrace || c.EnableTelemetryTrace
}

// Default returns a config with only chrome tracing enabled.
func Default() TracingConfig {
	return TracingConfig{
		EnableChromeTrace: true,
		ChromeTraceConfig: ChromeTraceConfig{RecordMode: DefaultChromeRecordMode},
	}
}

// ErrEmptyConfig is returned when a config document contains no YAML at all.
var ErrEmptyConfig = errors.New("config: empty document")

// Parse decodes a YAML document. Fields missing from the document keep
// their zero value except the chrome record mode, which defaults to
// record-until-full.
func Parse(data []byte) (TracingConfig, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes a YAML document from r.
func Load(r io.Reader) (TracingConfig, error) {
	var cfg TracingConfig

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return TracingConfig{}, ErrEmptyConfig
		}

		return TracingConfig{}, fmt.Errorf("config: decode tracing config: %w", err)
	}

	if cfg.ChromeTraceConfig.RecordMode == "" {
		cfg.ChromeTraceConfig.RecordMode = DefaultChromeRecordMode
	}

	return cfg, nil
}

// LoadFile reads and decodes the YAML file at path.
func LoadFile(path string) (TracingConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return TracingConfig{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}
