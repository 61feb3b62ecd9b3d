// Package config holds the simulator-wide ambient settings loaded from an
// optional TOML file, distinct from the per-assembly cache configuration
// format spec.md §6 mandates (that one is internal/cache.ParseConfig's
// concern). Grounded on the teacher's config package: a struct-of-structs
// with `toml` tags and a DefaultConfig constructor.
package config

import "github.com/BurntSushi/toml"

// ExecutionConfig bounds the run loop. DiagnosticsToStderr is loaded but
// not read: diagnostics go to stderr unless the --log-file flag is given.
type ExecutionConfig struct {
	// MaxSteps bounds how many instructions `run` will execute before
	// giving up, guarding against a non-terminating loaded program
	// (spec.md §7 notes these cannot be interrupted in-band otherwise).
	// Zero means unbounded.
	MaxSteps int `toml:"max_steps"`

	DiagnosticsToStderr bool `toml:"diagnostics_to_stderr"`
}

// DisplayConfig holds display settings for `mem`/`regs` output. They are
// loaded and defaulted but not read by those commands, which always print
// hex, with `mem` output on a single line.
type DisplayConfig struct {
	BytesPerLine int    `toml:"bytes_per_line"`
	NumberFormat string `toml:"number_format"` // "hex" or "dec"
}

// LogConfig controls the stdlib logger's verbosity.
type LogConfig struct {
	Level string `toml:"level"` // "info" or "debug"
}

// Config is the top-level simulator configuration.
type Config struct {
	Execution ExecutionConfig `toml:"execution"`
	Display   DisplayConfig   `toml:"display"`
	Log       LogConfig       `toml:"log"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Execution: ExecutionConfig{
			MaxSteps:            1_000_000,
			DiagnosticsToStderr: true,
		},
		Display: DisplayConfig{
			BytesPerLine: 16,
			NumberFormat: "hex",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and parses a TOML config file, starting from DefaultConfig()
// so an omitted section keeps its default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
