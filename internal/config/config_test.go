package config

import (
	"strings"
	"testing"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/photos", "/media/photos"},
		{"single trailing slash", "/media/photos/", "/media/photos"},
		{"multiple trailing slashes", "/media/photos///", "/media/photos"},
		{"root path", "/", "/"},
		{"relative path", "inbox", "inbox"},
		{"relative with slash", "inbox/", "inbox"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandDir("~/inbox/")
	if err != nil {
		t.Fatalf("ExpandDir: %v", err)
	}
	if !strings.HasPrefix(got, home) {
		t.Errorf("ExpandDir(~/inbox/) = %q, want prefix %q", got, home)
	}
	if strings.HasSuffix(got, "/") {
		t.Errorf("ExpandDir(~/inbox/) = %q, trailing slash not stripped", got)
	}
}

func TestValidate_ConflictPolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  ConflictPolicy
		wantErr bool
	}{
		{"refuse is valid", ConflictRefuse, false},
		{"number is valid", ConflictNumber, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "overwrite", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Dir = "/photos"
			cfg.OnConflict = tt.policy
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Dir = "/photos"
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresDir(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when Dir is empty")
	}

	cfg.Dir = "/photos"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_Workers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = "/photos"
	cfg.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for negative workers")
	}

	cfg.Workers = 8
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_BadPatternsAreNotFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = "/photos"
	cfg.RegexMode = true
	cfg.Search = "["     // invalid regex
	cfg.Exclude = "re:(" // invalid regex token
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() must not check pattern syntax, got: %v", err)
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"ALWAYS", ColorAlways, false},
		{" never ", ColorNever, false},
		{"", "", true},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColorMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColorMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("BATCHREN_EXCLUDE", ".tmp, re:old")
	t.Setenv("BATCHREN_LOG", "/var/log/batchren.log")
	t.Setenv("BATCHREN_COLOR", "never")
	t.Setenv("BATCHREN_WORKERS", "4")

	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.Exclude != ".tmp, re:old" {
		t.Errorf("Exclude = %q", cfg.Exclude)
	}
	if cfg.LogFile != "/var/log/batchren.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q", cfg.ColorMode)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
}

func TestLoadEnv_FlagsStillWin(t *testing.T) {
	// LoadEnv only fills defaults; ParseFlags runs afterwards and overwrites.
	// Simulate the layering by mutating cfg the way a flag would.
	t.Setenv("BATCHREN_EXCLUDE", ".tmp")
	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	cfg.Exclude = ".bak"
	if cfg.Exclude != ".bak" {
		t.Errorf("Exclude = %q, want flag value to win", cfg.Exclude)
	}
}

func TestLoadEnv_InvalidWorkers(t *testing.T) {
	t.Setenv("BATCHREN_WORKERS", "many")
	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err == nil {
		t.Error("LoadEnv should reject non-numeric BATCHREN_WORKERS")
	}

	t.Setenv("BATCHREN_WORKERS", "-2")
	cfg = DefaultConfig()
	if err := LoadEnv(&cfg); err == nil {
		t.Error("LoadEnv should reject negative BATCHREN_WORKERS")
	}
}

func TestLoadEnv_InvalidColor(t *testing.T) {
	t.Setenv("BATCHREN_COLOR", "rainbow")
	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err == nil {
		t.Error("LoadEnv should reject an invalid BATCHREN_COLOR")
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OnConflict != ConflictRefuse {
		t.Errorf("default OnConflict = %q, want %q", cfg.OnConflict, ConflictRefuse)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("default ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
	if cfg.Apply {
		t.Error("default Apply should be false (preview only)")
	}
	if cfg.CaseSensitive {
		t.Error("default CaseSensitive should be false")
	}
	if cfg.Recurse {
		t.Error("default Recurse should be false")
	}
	if cfg.Workers != 0 {
		t.Errorf("default Workers = %d, want 0 (auto)", cfg.Workers)
	}
}

func TestConflictPolicyValue_Set(t *testing.T) {
	var policy ConflictPolicy
	v := conflictPolicyValue{&policy}

	if err := v.Set("NUMBER"); err != nil {
		t.Fatalf("Set(NUMBER): %v", err)
	}
	if policy != ConflictNumber {
		t.Errorf("policy = %q, want %q", policy, ConflictNumber)
	}
	if err := v.Set("drop"); err == nil {
		t.Error("Set(drop) should fail")
	}
}
