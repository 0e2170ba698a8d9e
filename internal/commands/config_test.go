package commands

import (
	"strings"
	"testing"

	"github.com/ecrypto/chatclient/internal/config"
)

// TestNewConfigCmd tests the config command constructor
func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd()

	if cmd == nil {
		t.Fatal("NewConfigCmd() returned nil")
	}
	if cmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", cmd.Use)
	}
	if cmd.Short != "Show the effective configuration" {
		t.Errorf("unexpected Short: %s", cmd.Short)
	}
	if cmd.RunE == nil {
		t.Error("RunE should not be nil")
	}

	var hasSet bool
	for _, c := range cmd.Commands() {
		if c.Name() == "set" {
			hasSet = true
		}
	}
	if !hasSet {
		t.Error("config should have a 'set' subcommand")
	}

	if NewConfigCmd() == configCmd {
		t.Error("each call should build a fresh command")
	}
}

func TestConfigCmd_Show(t *testing.T) {
	setupCommandTest(t, nil)
	t.Setenv(config.EnvProfile, "ecrypto")
	cmd, stdout, _ := newTestCmd()

	if err := NewConfigCmd().RunE(cmd, nil); err != nil {
		t.Fatalf("config error = %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "config.json") {
		t.Errorf("expected config path in output: %q", out)
	}
	if !strings.Contains(out, `"profile": "ecrypto"`) {
		t.Errorf("expected env override in output: %q", out)
	}
}

func TestConfigCmd_Set(t *testing.T) {
	setupCommandTest(t, nil)
	set := newConfigSetCmd()
	cmd, stdout, _ := newTestCmd()

	if err := set.RunE(cmd, []string{"timeout_seconds", "30"}); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if !strings.Contains(stdout.String(), "timeout_seconds = 30") {
		t.Errorf("unexpected output %q", stdout.String())
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}

	if err := set.RunE(cmd, []string{"nope", "x"}); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := set.Args(set, []string{"only-key"}); err == nil {
		t.Error("expected args error with a single argument")
	}
}
