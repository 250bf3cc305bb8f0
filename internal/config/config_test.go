package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "NEWTAB_TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "NEWTAB_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single value", input: "newtab.local", expected: []string{"newtab.local"}},
		{name: "multiple values", input: "a, b ,c", expected: []string{"a", "b", "c"}},
		{name: "quoted values", input: `"a",'b'`, expected: []string{"a", "b"}},
		{name: "empty parts dropped", input: "a,,  ,b", expected: []string{"a", "b"}},
		{name: "empty", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", key: "NEWTAB_TEST_DURATION", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", key: "NEWTAB_TEST_DURATION_INVALID", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", key: "NEWTAB_TEST_DURATION_MISSING", def: 15 * time.Second, expected: 15 * time.Second},
		{name: "zero uses default", key: "NEWTAB_TEST_DURATION_ZERO", value: "0s", def: time.Hour, expected: time.Hour},
		{name: "negative uses default", key: "NEWTAB_TEST_DURATION_NEGATIVE", value: "-5m", def: time.Hour, expected: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			if result := mustDuration(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadRejectsNonPositiveImportInterval(t *testing.T) {
	t.Setenv("NEWTAB_ENV_FILE", "")
	t.Setenv("NEWTAB_IMPORT_INTERVAL", "0s")

	if got := Load().ImportInterval; got != time.Hour {
		t.Errorf("ImportInterval = %v, want %v", got, time.Hour)
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "NEWTAB_TEST_BOOL", value: "true", expected: true},
		{name: "false value", key: "NEWTAB_TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "NEWTAB_TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "NEWTAB_TEST_BOOL_MISSING", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			if result := mustBool(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("NEWTAB_TEST_INT", "42")
	t.Setenv("NEWTAB_TEST_INT_BAD", "many")

	if got := getenvInt("NEWTAB_TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("NEWTAB_TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getenvInt() = %d, want default 7", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEWTAB_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want sqlite", cfg.Storage)
	}
	if cfg.Edition != "basic" {
		t.Errorf("Edition = %q, want basic", cfg.Edition)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr should stay empty without redis storage, got %q", cfg.RedisAddr)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "NEWTAB_EDITION=extended\nNEWTAB_STORAGE=memory\nNEWTAB_LISTEN_PORT=:9999\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("NEWTAB_ENV_FILE", envFile)
	// Explicit environment wins over the file.
	t.Setenv("NEWTAB_LISTEN_PORT", ":7000")
	// Make sure the keys coming from the file are cleaned up afterwards.
	t.Setenv("NEWTAB_EDITION", "")
	t.Setenv("NEWTAB_STORAGE", "")
	if err := os.Unsetenv("NEWTAB_EDITION"); err != nil {
		t.Fatal(err)
	}
	if err := os.Unsetenv("NEWTAB_STORAGE"); err != nil {
		t.Fatal(err)
	}

	cfg := Load()

	if cfg.Edition != "extended" {
		t.Errorf("Edition = %q, want extended", cfg.Edition)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %q, want memory", cfg.Storage)
	}
	if cfg.ListenPort != ":7000" {
		t.Errorf("ListenPort = %q, want :7000", cfg.ListenPort)
	}
}

func TestLoadRedisRequiresAddr(t *testing.T) {
	t.Setenv("NEWTAB_ENV_FILE", "")
	t.Setenv("NEWTAB_STORAGE", "redis")
	t.Setenv("NEWTAB_REDIS_ADDR", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without NEWTAB_REDIS_ADDR")
		}
	}()
	_ = Load()
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("NEWTAB_ENV_FILE", "")
	t.Setenv("NEWTAB_STORAGE", "etcd")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic on unknown storage")
		}
	}()
	_ = Load()
}
