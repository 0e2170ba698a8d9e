package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Profile != ProfileAssistant {
		t.Errorf("Expected default profile to be %q, got %q", ProfileAssistant, cfg.Profile)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("Expected TimeoutSeconds 300, got %d", cfg.TimeoutSeconds)
	}
	if cfg.Verbose {
		t.Error("Expected Verbose to be false")
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Expected markdown style dark, got %q", cfg.Markdown.Style)
	}
}

func TestConfig_Timeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{300, 300 * time.Second},
		{15, 15 * time.Second},
		{0, 300 * time.Second},
		{-1, 300 * time.Second},
	}

	for _, tt := range tests {
		cfg := Config{TimeoutSeconds: tt.seconds}
		if got := cfg.Timeout(); got != tt.want {
			t.Errorf("Timeout() with %d = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestGetConfigPaths(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if dir != filepath.Join(tmpDir, ".chatclient") {
		t.Errorf("GetConfigDir() = %s", dir)
	}

	path, _ := GetConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("GetConfigPath() = %s", path)
	}

	logPath, _ := GetLogPath()
	if filepath.Base(logPath) != "chatclient.log" {
		t.Errorf("GetLogPath() = %s", logPath)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Profile != DefaultProfileName {
		t.Errorf("expected defaults, got profile %q", cfg.Profile)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.Profile = ProfileECrypto
	cfg.TimeoutSeconds = 20
	cfg.CopyToClipboard = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, ".chatclient", "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Profile != ProfileECrypto || loaded.TimeoutSeconds != 20 || !loaded.CopyToClipboard {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir := filepath.Join(tmpDir, ".chatclient")
	_ = os.MkdirAll(dir, 0o700)
	data, _ := json.Marshal(map[string]any{"profile": "ecrypto"})
	_ = os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Profile != "ecrypto" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds should keep default, got %d", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir := filepath.Join(tmpDir, ".chatclient")
	_ = os.MkdirAll(dir, 0o700)
	_ = os.WriteFile(filepath.Join(dir, "config.json"), []byte("{invalid"), 0o600)

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Profile != DefaultProfileName {
		t.Error("expected defaults on parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvProfile, "ecrypto")
	t.Setenv(EnvEndpoint, "http://10.0.0.2:5000/api/chat")

	cfg := ApplyEnv(DefaultConfig())

	if cfg.Profile != "ecrypto" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
	if cfg.EndpointURL != "http://10.0.0.2:5000/api/chat" {
		t.Errorf("EndpointURL = %q", cfg.EndpointURL)
	}
}

func TestApplyEnv_EmptyLeavesConfig(t *testing.T) {
	t.Setenv(EnvProfile, "  ")
	t.Setenv(EnvEndpoint, "")

	cfg := ApplyEnv(DefaultConfig())
	if cfg.Profile != DefaultProfileName || cfg.EndpointURL != "" {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"profile", "ecrypto", false, func(c Config) bool { return c.Profile == "ecrypto" }},
		{"profile", "", true, nil},
		{"endpoint_url", "http://h/api/chat", false, func(c Config) bool { return c.EndpointURL == "http://h/api/chat" }},
		{"option_endpoint_url", "http://h/option/", false, func(c Config) bool { return c.OptionEndpointURL == "http://h/option/" }},
		{"timeout_seconds", "45", false, func(c Config) bool { return c.TimeoutSeconds == 45 }},
		{"timeout_seconds", "0", true, nil},
		{"timeout_seconds", "abc", true, nil},
		{"verbose", "true", false, func(c Config) bool { return c.Verbose }},
		{"verbose", "maybe", true, nil},
		{"copy_to_clipboard", "1", false, func(c Config) bool { return c.CopyToClipboard }},
		{"log_level", "info", false, func(c Config) bool { return c.LogLevel == "info" }},
		{"tui_theme", "nord", false, func(c Config) bool { return c.TUITheme == "nord" }},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"unknown", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := SetValue(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("SetValue(%s, %s) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestSetValue_UnknownKeyListsValidKeys(t *testing.T) {
	cfg := DefaultConfig()
	err := SetValue(&cfg, "nope", "x")
	if err == nil || !strings.Contains(err.Error(), "timeout_seconds") {
		t.Errorf("expected error listing valid keys, got %v", err)
	}
}
