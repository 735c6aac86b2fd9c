// Package session owns the engine state between operations: the scanned
// records, the computed preview, and the lifecycle of an apply run.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/backmassage/batchren/internal/config"
	"github.com/backmassage/batchren/internal/conflict"
	"github.com/backmassage/batchren/internal/exclude"
	"github.com/backmassage/batchren/internal/logging"
	"github.com/backmassage/batchren/internal/rename"
	"github.com/backmassage/batchren/internal/scan"
	"github.com/backmassage/batchren/internal/transform"
)

// ErrRefused reports that an apply was blocked before any file was touched:
// target conflicts, or the directory lock could not be created.
var ErrRefused = errors.New("rename refused")

// Compiled filters and rules are memoized per distinct input, so flag toggles
// and the post-apply rescan skip recompilation.
const cacheSize = 32

// Progress mirrors the executor's advance for display.
type Progress struct {
	Total      int
	Done       int
	InProgress bool
}

type ruleKey struct {
	search        string
	replace       string
	caseSensitive bool
	regex         bool
}

// compiledRule pairs a transformer with the warning produced when its
// pattern failed to compile; the transformer is then the identity.
type compiledRule struct {
	t       *transform.Transformer
	warning string
}

// Session holds the state shared by the engine's operations: the scanned
// records, the preview indices, counters for the status line, and the
// in-flight apply run. Methods are not safe for concurrent use; the event
// channel returned by [Session.Apply] is consumed by the caller and folded
// back in through [Session.Track].
type Session struct {
	cfg *config.Config
	log *logging.Logger

	Files      []scan.Record
	Preview    []int // indices into Files of records whose name changes
	Renumbered int   // records renumbered under the numbering policy
	Duplicates int   // duplicate targets counted under the refuse policy
	Rejected   int   // records whose transform produced an unsafe name
	Status     string
	Progress   Progress

	filters *lru.Cache[string, *exclude.Filter]
	rules   *lru.Cache[ruleKey, *compiledRule]
	lock    *lockedfile.File
}

// New creates a session. cfg and log are retained and must outlive it.
func New(cfg *config.Config, log *logging.Logger) (*Session, error) {
	filters, err := lru.New[string, *exclude.Filter](cacheSize)
	if err != nil {
		return nil, err
	}
	rules, err := lru.New[ruleKey, *compiledRule](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, log: log, filters: filters, rules: rules}, nil
}

// Refresh rebuilds the listing and the preview from the current
// configuration. Broken patterns are logged as warnings and leave the
// affected stage at identity; a missing root yields an empty listing and a
// "directory not found" status. Refresh does nothing while a rename runs.
func (s *Session) Refresh() error {
	if s.Progress.InProgress {
		return nil
	}
	s.Files, s.Preview = nil, nil
	s.Renumbered, s.Duplicates, s.Rejected = 0, 0, 0

	f := s.filter()
	for _, w := range f.Warnings() {
		s.log.Warn("%s", w)
	}
	files, err := scan.Scan(s.cfg, f, s.log)
	if err != nil {
		if errors.Is(err, scan.ErrRootNotFound) {
			s.Status = fmt.Sprintf("directory not found: %s", s.cfg.Dir)
			return nil
		}
		return err
	}

	r := s.rule()
	if r.warning != "" {
		s.log.Warn("%s", r.warning)
	}
	for i := range files {
		rec := &files[i]
		rec.Search, rec.Replace, rec.CaseSensitive = s.cfg.Search, s.cfg.Replace, s.cfg.CaseSensitive
		name, err := r.t.Apply(rec.Base())
		if err != nil {
			s.Rejected++
			s.log.Debug(s.cfg.Verbose, "rejected %s: %v", rec.Path, err)
		}
		rec.NewName = name
	}

	checker := conflict.Checker{StrictCase: s.cfg.StrictCase}
	if s.cfg.OnConflict == config.ConflictNumber {
		s.Renumbered = checker.AutoNumber(files)
	} else {
		s.Duplicates = checker.Duplicates(files)
	}

	for i := range files {
		if files[i].Changed() {
			s.Preview = append(s.Preview, i)
		}
	}
	s.Files = files
	s.Status = s.refreshStatus()
	return nil
}

func (s *Session) refreshStatus() string {
	if s.cfg.Search == "" {
		return fmt.Sprintf("loaded %d file(s)", len(s.Files))
	}
	status := fmt.Sprintf("preview: %d change(s)", len(s.Preview))
	switch {
	case s.Renumbered > 0:
		status += fmt.Sprintf(", %d renumbered", s.Renumbered)
	case s.Duplicates > 0:
		status += fmt.Sprintf(", %d duplicate target(s)", s.Duplicates)
	}
	return status
}

// Apply validates the preview and starts renaming. It returns the executor's
// event channel; the caller consumes it, feeding each event to
// [Session.Track]. A nil channel with a nil error means there was nothing to
// do: an empty preview, or a run already in flight. [ErrRefused] is returned,
// wrapped with detail, when conflicts block the batch or the directory lock
// cannot be created; no file is touched in either case.
func (s *Session) Apply() (<-chan rename.Event, error) {
	if s.Progress.InProgress {
		return nil, nil
	}
	if len(s.Preview) == 0 {
		s.Status = "nothing to rename"
		return nil, nil
	}

	checker := conflict.Checker{StrictCase: s.cfg.StrictCase}
	if rep := checker.Validate(s.Files); rep.Conflicted() {
		detail := fmt.Sprintf("%d duplicate target(s), %d existing file(s)",
			rep.DuplicateGroups, rep.Existing)
		s.Status = "refused: " + detail
		return nil, fmt.Errorf("%w: %s", ErrRefused, detail)
	}

	lock, err := lockedfile.Create(filepath.Join(s.cfg.Dir, config.LockFileName))
	if err != nil {
		s.Status = fmt.Sprintf("refused: cannot lock directory: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRefused, err)
	}
	s.lock = lock

	batch := make([]scan.Record, len(s.Preview))
	for i, idx := range s.Preview {
		batch[i] = s.Files[idx]
		s.log.Debug(s.cfg.Verbose, "queued %s -> %s, rule %s",
			batch[i].Base(), batch[i].NewName, batch[i].Rule())
	}
	s.Progress = Progress{Total: len(batch), InProgress: true}
	s.Status = fmt.Sprintf("renaming %d file(s)", len(batch))

	ex := &rename.Executor{
		Workers: s.cfg.Workers,
		ErrorLog: func(path string, err error) {
			s.log.Error("rename %s: %v", path, err)
		},
	}
	return ex.Run(batch), nil
}

// Track folds one executor event into the progress state. On the terminal
// event it releases the directory lock, freezes progress, sets the final
// status, and returns the summary; progress ticks return nil.
func (s *Session) Track(ev rename.Event) *rename.Summary {
	if ev.Done > s.Progress.Done {
		s.Progress.Done = ev.Done
	}
	if ev.Summary == nil {
		return nil
	}
	s.Progress.InProgress = false
	s.releaseLock()
	s.Status = fmt.Sprintf("renamed %d file(s), %d error(s)",
		ev.Summary.Renamed, ev.Summary.Failed)
	return ev.Summary
}

func (s *Session) releaseLock() {
	if s.lock == nil {
		return
	}
	name := s.lock.Name()
	if err := s.lock.Close(); err != nil {
		s.log.Debug(s.cfg.Verbose, "release lock: %v", err)
	}
	_ = os.Remove(name)
	s.lock = nil
}

// filter returns the compiled exclusion filter for the current spec.
func (s *Session) filter() *exclude.Filter {
	if f, ok := s.filters.Get(s.cfg.Exclude); ok {
		return f
	}
	f := exclude.Compile(s.cfg.Exclude)
	s.filters.Add(s.cfg.Exclude, f)
	return f
}

// rule returns the compiled transformer for the current search/replace rule.
func (s *Session) rule() *compiledRule {
	key := ruleKey{s.cfg.Search, s.cfg.Replace, s.cfg.CaseSensitive, s.cfg.RegexMode}
	if r, ok := s.rules.Get(key); ok {
		return r
	}
	t, err := transform.Compile(transform.Rule{
		Search:        key.search,
		Replace:       key.replace,
		CaseSensitive: key.caseSensitive,
		Regex:         key.regex,
	})
	r := &compiledRule{t: t}
	if err != nil {
		r.warning = err.Error()
	}
	s.rules.Add(key, r)
	return r
}
