package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/batchren/internal/config"
	"github.com/backmassage/batchren/internal/exclude"
	"github.com/backmassage/batchren/internal/logging"
)

// --- Scan tests ---

func TestScan_MissingRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "no-such-dir"))
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

func TestScan_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "plain.txt")
	cfg := testConfig(filepath.Join(dir, "plain.txt"))
	_, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestScan_FlatListing(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.txt")
	touch(t, dir, "a.txt")
	os.MkdirAll(filepath.Join(dir, "sub"), 0o755)
	touch(t, filepath.Join(dir, "sub"), "nested.txt")

	cfg := testConfig(dir)
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"a.txt", "b.txt"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.txt")
	os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755)
	touch(t, filepath.Join(dir, "sub"), "mid.txt")
	touch(t, filepath.Join(dir, "sub", "deep"), "leaf.txt")

	cfg := testConfig(dir)
	cfg.Recurse = true
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i].Path < files[i-1].Path {
			t.Errorf("not sorted: %q before %q", files[i-1].Path, files[i].Path)
		}
	}
}

func TestScan_AppliesExclusions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep.txt")
	touch(t, dir, "scratch.tmp")
	touch(t, dir, "draft of keep.txt")

	cfg := testConfig(dir)
	files, err := Scan(&cfg, exclude.Compile("*.tmp, draft"), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"keep.txt"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_RegularFilesOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "real.txt")
	os.MkdirAll(filepath.Join(dir, "folder.txt"), 0o755)
	if err := os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlink: %v", err)
	}

	cfg := testConfig(dir)
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"real.txt"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_SkipsLockFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "kept.txt")
	touch(t, dir, config.LockFileName)

	cfg := testConfig(dir)
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"kept.txt"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_AbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "x.txt")
	cfg := testConfig(dir)
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, f := range files {
		if !filepath.IsAbs(f.Path) {
			t.Errorf("relative path in results: %q", f.Path)
		}
	}
}

func TestScan_EmptyDir(t *testing.T) {
	cfg := testConfig(t.TempDir())
	files, err := Scan(&cfg, exclude.Compile(""), testLogger(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

// --- Record tests ---

func TestRecord_Changed(t *testing.T) {
	cases := []struct {
		path    string
		newName string
		want    bool
	}{
		{"/d/file.txt", "file.txt", false},
		{"/d/file.txt", "renamed.txt", true},
		{"/d/file.txt", "FILE.txt", true}, // case-only still counts
	}
	for _, tc := range cases {
		r := Record{Path: tc.path, NewName: tc.newName}
		if got := r.Changed(); got != tc.want {
			t.Errorf("Changed(%q -> %q) = %v, want %v", tc.path, tc.newName, got, tc.want)
		}
	}
}

func TestRecord_Target(t *testing.T) {
	r := Record{Path: "/docs/old.txt", NewName: "new.txt"}
	if got := r.Target(); got != "/docs/new.txt" {
		t.Errorf("Target = %q, want /docs/new.txt", got)
	}
}

func TestRecord_Rule(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"no rule", Record{}, "(no rule)"},
		{"plain", Record{Search: "draft", Replace: "final"}, `"draft" -> "final"`},
		{"case-sensitive", Record{Search: "IMG", Replace: "pic", CaseSensitive: true},
			`"IMG" -> "pic" (case-sensitive)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Rule(); got != tt.want {
				t.Errorf("Rule() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Helpers ---

func testConfig(dir string) config.Config {
	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.ColorMode = config.ColorNever
	return cfg
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func basenames(files []Record) []string {
	out := make([]string, len(files))
	for i := range files {
		out[i] = files[i].Base()
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
