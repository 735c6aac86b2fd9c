// Package conflict validates proposed rename targets and resolves collisions
// by numbering.
package conflict

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/batchren/internal/scan"
)

// Checker compares target names for collisions. By default names are
// compared case-insensitively, which is safe on case-insensitive filesystems;
// StrictCase switches to exact comparison for filesystems where "A.txt" and
// "a.txt" are distinct files.
type Checker struct {
	StrictCase bool
}

func (c *Checker) fold(s string) string {
	if c.StrictCase {
		return s
	}
	return strings.ToLower(s)
}

// Report summarizes the conflicts found by [Checker.Validate]. Any non-zero
// field means the batch must not run.
type Report struct {
	DuplicateGroups int // distinct targets claimed by more than one file
	Existing        int // changed records whose target already exists on disk
}

// Conflicted reports whether the batch has any blocking conflict.
func (r Report) Conflicted() bool { return r.DuplicateGroups > 0 || r.Existing > 0 }

// Validate checks every changed record's target for collisions: targets
// claimed by more than one file, and targets that already exist on disk.
// A record renaming a file to a case variant of itself is not an existing
// file conflict.
func (c *Checker) Validate(files []scan.Record) Report {
	var rep Report
	claims := make(map[string]int)
	for i := range files {
		r := &files[i]
		if !r.Changed() {
			continue
		}
		target := r.Target()
		claims[c.fold(target)]++
		if c.fold(target) == c.fold(r.Path) {
			continue
		}
		if _, err := os.Lstat(target); err == nil {
			rep.Existing++
		}
	}
	for _, n := range claims {
		if n > 1 {
			rep.DuplicateGroups++
		}
	}
	return rep
}

// Duplicates counts the changed records whose target was already claimed by
// an earlier record in the list. Three files headed for the same name count
// as two duplicates.
func (c *Checker) Duplicates(files []scan.Record) int {
	seen := make(map[string]bool)
	dups := 0
	for i := range files {
		r := &files[i]
		if !r.Changed() {
			continue
		}
		key := c.fold(r.Target())
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}

// AutoNumber rewrites colliding proposed names by appending " (2)", " (3)",
// and so on before the extension. The used-name set of each directory is
// seeded with every file's current name, so a proposal that matches a present
// name gets renumbered even if that file is itself being renamed away.
// Changed records are processed in list order and each final name is
// reserved immediately. Returns how many records were renumbered.
func (c *Checker) AutoNumber(files []scan.Record) int {
	used := make(map[string]map[string]bool)
	for i := range files {
		dir := filepath.Dir(files[i].Path)
		names := used[dir]
		if names == nil {
			names = make(map[string]bool)
			used[dir] = names
		}
		names[c.fold(files[i].Base())] = true
	}

	renumbered := 0
	for i := range files {
		r := &files[i]
		if !r.Changed() {
			continue
		}
		names := used[filepath.Dir(r.Path)]
		if !names[c.fold(r.NewName)] {
			names[c.fold(r.NewName)] = true
			continue
		}
		base, ext := splitName(r.NewName)
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
			if !names[c.fold(candidate)] {
				r.NewName = candidate
				names[c.fold(candidate)] = true
				break
			}
		}
		renumbered++
	}
	return renumbered
}

// splitName splits a basename at the last dot, keeping the dot with the
// extension. A name without a dot has an empty extension.
func splitName(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
