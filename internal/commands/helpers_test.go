package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ecrypto/chatclient/internal/api"
	"github.com/ecrypto/chatclient/internal/config"
	"github.com/ecrypto/chatclient/internal/dispatch"
	"github.com/ecrypto/chatclient/internal/render"
)

// fakeTUI records what the chat command hands to the TUI
type fakeTUI struct {
	called     bool
	profile    config.Profile
	opts       render.Options
	dispatcher *dispatch.Dispatcher
	// run, when set, drives the live session before RunChat returns
	run func(ctx context.Context, d *dispatch.Dispatcher)
}

func (f *fakeTUI) RunChat(ctx context.Context, d *dispatch.Dispatcher, profile config.Profile, opts render.Options) error {
	f.called = true
	f.profile = profile
	f.opts = opts
	f.dispatcher = d
	if f.run != nil {
		f.run(ctx, d)
	}
	return nil
}

// setupCommandTest isolates HOME, resets global flags and installs test dependencies
func setupCommandTest(t *testing.T, client api.ChatClientInterface) *Dependencies {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvProfile, "")
	t.Setenv(config.EnvEndpoint, "")
	t.Setenv(render.EnvStyle, "")

	profileFlag, endpointFlag, outputFlag, fileFlag = "", "", "", ""

	prev := deps
	deps = &Dependencies{
		Client:    client,
		TUI:       &fakeTUI{},
		Clipboard: func(string) error { return nil },
		IsTTY:     func() bool { return false },
	}
	t.Cleanup(func() {
		deps = prev
		profileFlag, endpointFlag, outputFlag, fileFlag = "", "", "", ""
	})
	return deps
}

// newTestCmd returns a bare command writing to buffers
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})
	return cmd, &stdout, &stderr
}
