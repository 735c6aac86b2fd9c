// Package config holds runtime configuration: defaults, environment
// defaults, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// --- Enum types for validated string fields ---

// ConflictPolicy decides what happens when two proposed names collide.
type ConflictPolicy string

const (
	ConflictRefuse ConflictPolicy = "refuse" // Refuse the whole apply (default).
	ConflictNumber ConflictPolicy = "number" // Disambiguate by appending " (2)", " (3)", …
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// LockFileName is the per-directory lock file held in the target directory
// while an apply run is in flight. The scanner never lists it.
const LockFileName = ".batchren.lock"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid with environment defaults by [LoadEnv], and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Target directory (positional arg, ~ expanded, trailing slashes stripped).
	Dir string

	// Selection.
	Exclude string // Comma-separated exclusion spec; empty excludes nothing.
	Recurse bool   // Default: false (direct children only).

	// Transformation rule.
	Search        string
	Replace       string
	CaseSensitive bool // Default: false (match ignores case).
	RegexMode     bool // Default: false (search is literal text).

	// Conflict handling.
	OnConflict ConflictPolicy // Default: "refuse".
	StrictCase bool           // Compare target names case-sensitively.

	// Execution.
	Apply   bool // Default: false (preview only).
	Workers int  // Rename workers; 0 means one per CPU.

	// Display and logging.
	Verbose   bool
	Quiet     bool      // Suppress banner, preview table, and progress bar.
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with built-in defaults. Used as the base
// before [LoadEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		OnConflict: ConflictRefuse,
		Workers:    0,
		ColorMode:  ColorAuto,
	}
}

// LoadEnv applies environment defaults to cfg. A .env file in the working
// directory is loaded first when present; real process environment wins over
// file entries, and flags parsed later win over both.
func LoadEnv(cfg *Config) error {
	_ = godotenv.Load()

	if v := os.Getenv("BATCHREN_EXCLUDE"); v != "" {
		cfg.Exclude = v
	}
	if v := os.Getenv("BATCHREN_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("BATCHREN_COLOR"); v != "" {
		mode, err := ParseColorMode(v)
		if err != nil {
			return fmt.Errorf("BATCHREN_COLOR: %w", err)
		}
		cfg.ColorMode = mode
	}
	if v := os.Getenv("BATCHREN_WORKERS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fmt.Errorf("BATCHREN_WORKERS must be a non-negative whole number (got %q)", v)
		}
		cfg.Workers = n
	}
	return nil
}

// ParseColorMode converts user input to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ExpandDir expands a leading ~ and normalizes the directory argument.
func ExpandDir(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return NormalizeDirArg(expanded), nil
}

// Validate checks that enum fields hold valid values, that Workers is sane,
// and that a target directory was given. Pattern syntax is deliberately not
// checked here: a bad search or exclusion pattern is a non-fatal condition
// reported as a warning at refresh time, never a startup failure.
func (c *Config) Validate() error {
	switch c.OnConflict {
	case ConflictRefuse, ConflictNumber:
		// valid
	default:
		return errors.New("invalid conflict policy (use 'refuse' or 'number')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 0 {
		return errors.New("workers must be zero or positive")
	}
	if c.Dir == "" {
		return errors.New("need exactly one directory argument")
	}
	return nil
}
