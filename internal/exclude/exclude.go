// Package exclude compiles comma-separated exclusion specs into filters
// applied by the scanner.
package exclude

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type tokenKind int

const (
	kindRegex tokenKind = iota
	kindGlob
	kindPathSubstring
	kindNameSubstring
)

// token is one compiled exclusion term. Exactly one of re/text is used,
// depending on kind.
type token struct {
	kind tokenKind
	raw  string
	re   *regexp.Regexp
	text string
}

// Filter holds the compiled tokens of an exclusion spec. A file is excluded
// when any token matches. The zero value excludes nothing.
type Filter struct {
	tokens   []token
	warnings []string
}

// Compile parses a comma-separated exclusion spec. Each trimmed, non-empty
// token is classified by shape:
//
//   - a "re:" prefix (any case) marks a regular expression matched against
//     the full path
//   - glob metacharacters (*, ?, [, {) mark a glob pattern
//   - a path separator marks a path substring
//   - anything else matches against the file name alone
//
// All matching is case-insensitive. Tokens that fail to compile are recorded
// as warnings (see [Filter.Warnings]) and exclude nothing; Compile itself
// never fails.
func Compile(spec string) *Filter {
	f := &Filter{}
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		f.add(raw)
	}
	return f
}

func (f *Filter) add(raw string) {
	switch {
	case len(raw) >= 3 && strings.EqualFold(raw[:3], "re:"):
		re, err := regexp.Compile("(?i)" + raw[3:])
		if err != nil {
			f.warnings = append(f.warnings, fmt.Sprintf("ignoring exclude pattern %q: %v", raw, err))
			return
		}
		f.tokens = append(f.tokens, token{kind: kindRegex, raw: raw, re: re})
	case strings.ContainsAny(raw, "*?[{"):
		pat := strings.ToLower(raw)
		// Globs without a separator match the file name in any directory.
		if !strings.Contains(pat, "/") {
			pat = "**/" + pat
		}
		if !doublestar.ValidatePattern(pat) {
			f.warnings = append(f.warnings, fmt.Sprintf("ignoring exclude pattern %q: bad glob syntax", raw))
			return
		}
		f.tokens = append(f.tokens, token{kind: kindGlob, raw: raw, text: pat})
	case strings.ContainsRune(raw, '/') || strings.ContainsRune(raw, filepath.Separator):
		f.tokens = append(f.tokens, token{kind: kindPathSubstring, raw: raw, text: strings.ToLower(raw)})
	default:
		f.tokens = append(f.tokens, token{kind: kindNameSubstring, raw: raw, text: strings.ToLower(raw)})
	}
}

// Excluded reports whether path matches any compiled token. path should be
// the full path of a candidate file.
func (f *Filter) Excluded(path string) bool {
	if len(f.tokens) == 0 {
		return false
	}
	lowerPath := strings.ToLower(path)
	lowerSlash := strings.ToLower(filepath.ToSlash(path))
	lowerName := strings.ToLower(filepath.Base(path))
	for _, t := range f.tokens {
		switch t.kind {
		case kindRegex:
			if t.re.MatchString(path) {
				return true
			}
		case kindGlob:
			// Patterns are validated in add; Match cannot fail here.
			if ok, _ := doublestar.Match(t.text, lowerSlash); ok {
				return true
			}
		case kindPathSubstring:
			if strings.Contains(lowerPath, t.text) {
				return true
			}
		case kindNameSubstring:
			if strings.Contains(lowerName, t.text) {
				return true
			}
		}
	}
	return false
}

// Warnings returns one message per token that failed to compile, in spec
// order.
func (f *Filter) Warnings() []string { return f.warnings }

// Empty reports whether the filter has no usable tokens.
func (f *Filter) Empty() bool { return len(f.tokens) == 0 }
