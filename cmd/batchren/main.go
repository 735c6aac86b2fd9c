// Command batchren previews and applies bulk filename rewrites.
//
// It parses flags, loads environment defaults, computes the rename preview
// for the target directory, and with --apply executes the batch.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/batchren/internal/config"
	"github.com/backmassage/batchren/internal/display"
	"github.com/backmassage/batchren/internal/logging"
	"github.com/backmassage/batchren/internal/rename"
	"github.com/backmassage/batchren/internal/session"
	"github.com/backmassage/batchren/internal/term"
	"github.com/backmassage/batchren/internal/transform"
)

// version and commit are injected at build time via -ldflags. When built
// with plain "go build" these retain their defaults.
var (
	version = "1.2.0"
	commit  = "unknown"
)

// The CURRENT NAME column gets up to half the terminal width, never less
// than the floor; the fallback width applies when stdout is not a terminal.
const (
	previewFallbackCols = 120
	previewMinPathWidth = 24
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: the logger doesn't exist yet, so errors go directly to
	// stderr via fmt. Once NewLogger succeeds, all output goes through the
	// logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.LoadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "batchren: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "batchren: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "batchren: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batchren: %v\n", err)
		return 1
	}
	defer log.Close()

	if !cfg.Quiet {
		display.PrintBanner()
	}

	if abs, err := filepath.Abs(cfg.Dir); err == nil {
		cfg.Dir = abs
	}

	log.Info("=== batchren v%s (%s) ===", version, commit)
	scope := "direct children"
	if cfg.Recurse {
		scope = "recursive"
	}
	log.Info("Dir: %s (%s)", cfg.Dir, scope)
	if cfg.Search != "" {
		log.Info("Rule: %q -> %q%s", cfg.Search, cfg.Replace, ruleLabels(&cfg))
	}
	if !cfg.Apply {
		log.Warn("PREVIEW RUN — no files will be renamed; pass --apply")
	}
	log.Info("")

	sess, err := session.New(&cfg, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if err := sess.Refresh(); err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Info("%s", sess.Status)
	if !cfg.Quiet && len(sess.Preview) > 0 {
		printPreview(sess, cfg.Dir)
	}

	if !cfg.Apply || len(sess.Preview) == 0 {
		return 0
	}

	events, err := sess.Apply()
	if err != nil {
		log.Error("%s", sess.Status)
		return 2
	}
	if events == nil {
		log.Info("%s", sess.Status)
		return 0
	}

	var bar *progressbar.ProgressBar
	if !cfg.Quiet {
		bar = progressbar.Default(int64(sess.Progress.Total), "renaming")
	}
	var sum *rename.Summary
	for ev := range events {
		if got := sess.Track(ev); got != nil {
			sum = got
		}
		if bar != nil {
			_ = bar.Set(sess.Progress.Done)
		}
	}

	if sum != nil && sum.Failed > 0 {
		log.Warn("%s", sess.Status)
		return 2
	}
	log.Success("%s", sess.Status)

	// Rescan so repeat matches (renumbered names that still contain the
	// search text, say) are visible right away.
	if err := sess.Refresh(); err == nil && len(sess.Preview) > 0 {
		log.Info("%d file(s) still match the rule; run again to continue", len(sess.Preview))
	}
	return 0
}

// ruleLabels describes the matching modifiers for the header line.
func ruleLabels(cfg *config.Config) string {
	s := ""
	if cfg.RegexMode {
		s += " (regex)"
	}
	if cfg.CaseSensitive {
		s += " (case-sensitive)"
	}
	return s
}

// printPreview renders the preview table: one row per record that changes,
// with paths shown relative to the scan root and a note for names that would
// be awkward on other platforms.
func printPreview(sess *session.Session, root string) {
	maxPath := term.Width(os.Stdout, previewFallbackCols) / 2
	if maxPath < previewMinPathWidth {
		maxPath = previewMinPathWidth
	}
	rows := make([]display.Row, 0, len(sess.Preview))
	for _, i := range sess.Preview {
		rec := &sess.Files[i]
		from := rec.Base()
		if rel, err := filepath.Rel(root, rec.Path); err == nil {
			from = rel
		}
		rows = append(rows, display.Row{
			From: display.Truncate(from, maxPath),
			To:   rec.NewName,
			Note: transform.NameIssue(rec.NewName),
		})
	}
	display.PreviewTable(os.Stdout, rows)
}
