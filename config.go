package des

import (
	"fmt"
	"os"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"gopkg.in/yaml.v3"
)

// RuntimeConfig is the typed, loadable configuration section a CLI
// embedder feeds into a Builder: a plain struct with format tags, fed by
// a small ConfigFeeder rather than a bespoke flag parser per format.
type RuntimeConfig struct {
	MaxEvents uint64        `toml:"max_events" yaml:"max_events"`
	MaxTime   float64       `toml:"max_time_seconds" yaml:"max_time_seconds"`
	Seed      uint64        `toml:"seed" yaml:"seed"`
	StartTime float64       `toml:"start_time_seconds" yaml:"start_time_seconds"`
	Backend   string        `toml:"backend" yaml:"backend"` // "heap" or "calendar"
	LogLevel  string        `toml:"log_level" yaml:"log_level"`

	// DrainAsyncBeforeExit, when true, keeps the loop alive while the async
	// bridge reports watched mpsc items in flight even after the event
	// queue empties. Opt-in.
	DrainAsyncBeforeExit bool `toml:"drain_async_before_exit" yaml:"drain_async_before_exit"`

	// DiagnosticsSource is the CloudEvents `source` attribute stamped on
	// every Diagnostics event.
	DiagnosticsSource string `toml:"diagnostics_source" yaml:"diagnostics_source"`
}

// ConfigFeeder loads a RuntimeConfig from some external representation:
// a feeder's only job is to populate an already-allocated struct.
type ConfigFeeder interface {
	Feed(path string, cfg *RuntimeConfig) error
}

// TOMLFeeder decodes a RuntimeConfig from a TOML file.
type TOMLFeeder struct{}

// Feed implements ConfigFeeder.
func (TOMLFeeder) Feed(path string, cfg *RuntimeConfig) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// YAMLFeeder decodes a RuntimeConfig from a YAML file.
type YAMLFeeder struct{}

// Feed implements ConfigFeeder.
func (YAMLFeeder) Feed(path string, cfg *RuntimeConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

// EnvFeeder reads a RuntimeConfig from environment variables named
// Prefix+"MAX_EVENTS", Prefix+"SEED", and so on. Values arrive as strings
// regardless of field type, so each one is coerced to its destination
// field's reflect.Type with golobby/cast rather than a hand-rolled
// strconv call per field.
type EnvFeeder struct {
	// Prefix is prepended to every variable name, e.g. "DES_".
	Prefix string
}

// Feed implements ConfigFeeder.
func (f EnvFeeder) Feed(_ string, cfg *RuntimeConfig) error {
	rv := reflect.ValueOf(cfg).Elem()

	set := func(name, fieldName string) error {
		v, ok := os.LookupEnv(f.Prefix + name)
		if !ok {
			return nil
		}
		field := rv.FieldByName(fieldName)
		converted, err := cast.FromType(v, field.Type())
		if err != nil {
			return fmt.Errorf("env: %s: %w", name, err)
		}
		field.Set(reflect.ValueOf(converted))
		return nil
	}

	for _, pair := range [][2]string{
		{"MAX_EVENTS", "MaxEvents"},
		{"MAX_TIME_SECONDS", "MaxTime"},
		{"SEED", "Seed"},
		{"START_TIME_SECONDS", "StartTime"},
		{"BACKEND", "Backend"},
		{"LOG_LEVEL", "LogLevel"},
		{"DRAIN_ASYNC_BEFORE_EXIT", "DrainAsyncBeforeExit"},
		{"DIAGNOSTICS_SOURCE", "DiagnosticsSource"},
	} {
		if err := set(pair[0], pair[1]); err != nil {
			return err
		}
	}
	return nil
}

// backendFromString maps a RuntimeConfig.Backend value to a Backend
// constant, defaulting to HeapBackend for anything unrecognized.
func backendFromString(s string) Backend {
	if s == "calendar" {
		return CalendarBackend
	}
	return HeapBackend
}

// startTime converts the configured float seconds into a SimTime, used by
// Builder when seeding a Runtime's cursor.
func (c *RuntimeConfig) startTime() SimTime { return SimTime(c.StartTime) }

// maxTime converts the configured float seconds into a SimTime, defaulting
// to SimTimeMax (no limit) when unset.
func (c *RuntimeConfig) maxTime() SimTime {
	if c.MaxTime <= 0 {
		return SimTimeMax
	}
	return SimTime(c.MaxTime)
}
