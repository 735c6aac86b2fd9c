// Package scan walks the target directory and produces the candidate file
// records that the rename preview operates on.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/backmassage/batchren/internal/config"
	"github.com/backmassage/batchren/internal/exclude"
	"github.com/backmassage/batchren/internal/logging"
)

// ErrRootNotFound reports that the scan root is missing or not a directory.
// Callers treat it as an empty listing, not a fatal error.
var ErrRootNotFound = errors.New("directory not found")

// Record is one candidate file. Path is the absolute location of the file on
// disk; NewName is the proposed basename after the rename rule is applied.
// Search, Replace and CaseSensitive record the rule the preview was computed
// with, for display.
type Record struct {
	Path          string
	NewName       string
	Search        string
	Replace       string
	CaseSensitive bool
}

// Base returns the file's current basename.
func (r *Record) Base() string { return filepath.Base(r.Path) }

// Changed reports whether the proposed name differs from the current one.
// The comparison is case-sensitive, so case-only renames count as changes.
func (r *Record) Changed() bool { return r.NewName != r.Base() }

// Target returns the full path the file would be renamed to: the proposed
// basename next to the original in the same directory.
func (r *Record) Target() string { return filepath.Join(filepath.Dir(r.Path), r.NewName) }

// Rule describes the search/replace rule the record was previewed with. An
// apply runs the batch exactly as previewed, so this is authoritative even
// if the configuration changed in between.
func (r *Record) Rule() string {
	if r.Search == "" {
		return "(no rule)"
	}
	s := fmt.Sprintf("%q -> %q", r.Search, r.Replace)
	if r.CaseSensitive {
		s += " (case-sensitive)"
	}
	return s
}

// Scan lists the regular files under cfg.Dir, honoring cfg.Recurse and the
// exclusion filter, and returns them sorted by path. Unreadable
// subdirectories are skipped. A missing or non-directory root yields
// [ErrRootNotFound].
func Scan(cfg *config.Config, filter *exclude.Filter, log *logging.Logger) ([]Record, error) {
	root, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, cfg.Dir)
	}
	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	var files []Record
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug(cfg.Verbose, "skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if !cfg.Recurse && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || d.Name() == config.LockFileName {
			return nil
		}
		if filter.Excluded(path) {
			log.Debug(cfg.Verbose, "excluded: %s", path)
			return nil
		}
		files = append(files, Record{Path: path, NewName: d.Name()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
