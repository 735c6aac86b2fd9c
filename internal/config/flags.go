package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into selection, rule, conflicts, execution, display, and
// utility. Alias and negated flags (e.g. --auto-number, --no-color) are
// applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing directory).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("batchren", flag.ContinueOnError)
	fs.Usage = func() { printUsage(version) }

	// Alias/negated flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() and LoadEnv() hold unless the
	// user passes the flag.
	var post postFlags

	defineSelectionFlags(fs, cfg)
	defineRuleFlags(fs, cfg)
	defineConflictFlags(fs, cfg, &post)
	defineExecutionFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &post)
	defineUtilityFlags(fs, &post)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyPostFlags(cfg, &post)

	if post.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if post.showVersion {
		fmt.Fprintln(os.Stdout, "batchren v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// postFlags holds flags applied after Parse: aliases that map onto enum
// fields, color overrides, and flags that trigger exit (help, version).
type postFlags struct {
	autoNumber  bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineSelectionFlags registers -x/--exclude and -r/--recurse.
func defineSelectionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Exclude, "exclude", cfg.Exclude, "Comma-separated exclusion tokens")
	fs.StringVar(&cfg.Exclude, "x", cfg.Exclude, "Same as --exclude")
	fs.BoolVar(&cfg.Recurse, "recurse", cfg.Recurse, "Include subdirectories")
	fs.BoolVar(&cfg.Recurse, "r", cfg.Recurse, "Same as --recurse")
}

// defineRuleFlags registers -s/--search, -p/--replace, -c/--case-sensitive, -E/--regex.
func defineRuleFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Search, "search", cfg.Search, "Text to search for in filenames")
	fs.StringVar(&cfg.Search, "s", cfg.Search, "Same as --search")
	fs.StringVar(&cfg.Replace, "replace", cfg.Replace, "Replacement text (inserted verbatim)")
	fs.StringVar(&cfg.Replace, "p", cfg.Replace, "Same as --replace")
	fs.BoolVar(&cfg.CaseSensitive, "case-sensitive", cfg.CaseSensitive, "Match case exactly")
	fs.BoolVar(&cfg.CaseSensitive, "c", cfg.CaseSensitive, "Same as --case-sensitive")
	fs.BoolVar(&cfg.RegexMode, "regex", cfg.RegexMode, "Treat the search pattern as a regular expression")
	fs.BoolVar(&cfg.RegexMode, "E", cfg.RegexMode, "Same as --regex")
}

// defineConflictFlags registers --on-conflict, -n/--auto-number, --strict-case.
func defineConflictFlags(fs *flag.FlagSet, cfg *Config, p *postFlags) {
	fs.Var(&conflictPolicyValue{&cfg.OnConflict}, "on-conflict", "Colliding targets: refuse | number")
	fs.BoolVar(&p.autoNumber, "auto-number", false, "Shorthand for --on-conflict number")
	fs.BoolVar(&p.autoNumber, "n", false, "Same as --auto-number")
	fs.BoolVar(&cfg.StrictCase, "strict-case", cfg.StrictCase, "Compare target names case-sensitively")
}

// defineExecutionFlags registers -y/--apply and -w/--workers.
func defineExecutionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Apply, "apply", cfg.Apply, "Perform the renames (default is preview only)")
	fs.BoolVar(&cfg.Apply, "y", cfg.Apply, "Same as --apply")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Rename workers (0 = one per CPU)")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
}

// defineDisplayFlags registers --color, --no-color, verbose, quiet, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, p *postFlags) {
	fs.BoolVar(&p.forceColor, "color", false, "Force colored output")
	fs.BoolVar(&p.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Suppress banner, table, and progress bar")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Same as --quiet")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, p *postFlags) {
	fs.BoolVar(&p.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&p.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&p.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&p.showHelp, "h", false, "Same as --help")
}

// applyPostFlags copies alias and override flag values into cfg.
func applyPostFlags(cfg *Config, p *postFlags) {
	if p.autoNumber {
		cfg.OnConflict = ConflictNumber
	}
	if p.noColor {
		cfg.ColorMode = ColorNever
	} else if p.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets Dir from the single positional argument.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if len(args) != 1 {
		return fmt.Errorf("need exactly one directory argument")
	}
	dir, err := ExpandDir(args[0])
	if err != nil {
		return err
	}
	cfg.Dir = dir
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"batchren v" + version + " — bulk filename search & replace", ""},
		{"", ""},
		{"  batchren [OPTIONS] <directory>", ""},
		{"", ""},
		{"Selection", ""},
		{"  -x, --exclude <spec>", "Comma-separated exclusion tokens: substring,"},
		{"", "path fragment, glob, or re:<regex>"},
		{"  -r, --recurse", "Include subdirectories"},
		{"", ""},
		{"Rule", ""},
		{"  -s, --search <pattern>", "Text to search for in filenames"},
		{"  -p, --replace <text>", "Replacement text (inserted verbatim)"},
		{"  -c, --case-sensitive", "Match case exactly (default: ignore case)"},
		{"  -E, --regex", "Treat the search pattern as a regular expression"},
		{"", ""},
		{"Conflicts", ""},
		{"  --on-conflict <policy>", "Colliding targets: refuse | number (default: refuse)"},
		{"  -n, --auto-number", "Shorthand for --on-conflict number"},
		{"  --strict-case", "Compare target names case-sensitively"},
		{"", ""},
		{"Execution", ""},
		{"  -y, --apply", "Perform the renames (default: preview only)"},
		{"  -w, --workers <n>", "Rename workers (default: one per CPU)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored output"},
		{"  --no-color", "Disable colored output"},
		{"  -v, --verbose", "Verbose output"},
		{"  -q, --quiet", "Suppress banner, table, and progress bar"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Environment", ""},
		{"  BATCHREN_EXCLUDE, BATCHREN_LOG, BATCHREN_COLOR, BATCHREN_WORKERS", ""},
		{"  set defaults; a .env file in the working directory is honored.", ""},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintf(os.Stderr, "%*s%s\n", col1, "", l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the ConflictPolicy enum works with flag.Var.

type conflictPolicyValue struct{ p *ConflictPolicy }

func (c *conflictPolicyValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *conflictPolicyValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "refuse":
		*c.p = ConflictRefuse
	case "number":
		*c.p = ConflictNumber
	default:
		return fmt.Errorf("invalid conflict policy %q (use 'refuse' or 'number')", s)
	}
	return nil
}
