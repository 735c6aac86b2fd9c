// Package transform applies the search/replace rule to file basenames.
package transform

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnsafeName reports that a replacement produced an empty name or one
// containing a path separator.
var ErrUnsafeName = errors.New("unsafe replacement name")

// Rule is the user-supplied rename rule. An empty Search means no rule: every
// name maps to itself.
type Rule struct {
	Search        string
	Replace       string
	CaseSensitive bool
	Regex         bool
}

// Transformer is a compiled rename rule. The zero value is the identity
// transform.
type Transformer struct {
	re      *regexp.Regexp
	replace string
}

// Identity returns a transformer that maps every name to itself.
func Identity() *Transformer { return &Transformer{} }

// Compile builds a transformer from rule. In literal mode the search text is
// quoted so regex metacharacters match themselves; unless CaseSensitive is
// set, matching ignores case. A rule whose pattern does not compile is not
// fatal: Compile returns the identity transformer along with the error so the
// preview can continue unchanged.
func Compile(rule Rule) (*Transformer, error) {
	if rule.Search == "" {
		return Identity(), nil
	}
	pat := rule.Search
	if !rule.Regex {
		pat = regexp.QuoteMeta(pat)
	}
	if !rule.CaseSensitive {
		pat = "(?i)" + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return Identity(), fmt.Errorf("search pattern: %w", err)
	}
	return &Transformer{re: re, replace: rule.Replace}, nil
}

// Apply rewrites name according to the rule. All non-overlapping matches are
// replaced left to right, and the replacement text is inserted verbatim:
// $1-style references have no special meaning. If the result is empty or
// contains a path separator, Apply returns the original name unchanged along
// with [ErrUnsafeName].
func (t *Transformer) Apply(name string) (string, error) {
	if t.re == nil {
		return name, nil
	}
	out := t.re.ReplaceAllLiteralString(name, t.replace)
	if out == "" || strings.ContainsRune(out, '/') || strings.ContainsRune(out, filepath.Separator) {
		return name, fmt.Errorf("%w: %q", ErrUnsafeName, out)
	}
	return out, nil
}

// Names that Windows reserves regardless of extension.
var windowsReserved = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// NameIssue returns a short advisory note when name would be problematic on
// other platforms, or "" when it looks fine. These are warnings for the
// preview, not rejections: the rename still proceeds on request.
func NameIssue(name string) string {
	if strings.ContainsAny(name, `<>:"\|?*`) {
		return "has characters invalid on Windows"
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		return "trailing dot or space"
	}
	stem := name
	if i := strings.IndexByte(name, '.'); i > 0 {
		stem = name[:i]
	}
	if windowsReserved[strings.ToLower(stem)] {
		return "reserved name on Windows"
	}
	return ""
}
