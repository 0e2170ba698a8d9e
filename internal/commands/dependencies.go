package commands

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/ecrypto/chatclient/internal/api"
	"github.com/ecrypto/chatclient/internal/config"
	"github.com/ecrypto/chatclient/internal/dispatch"
	"github.com/ecrypto/chatclient/internal/render"
	"github.com/ecrypto/chatclient/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, d *dispatch.Dispatcher, profile config.Profile, opts render.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client posts messages. When nil, an HTTP client is built from config.
	Client api.ChatClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies a reply to the system clipboard.
	Clipboard func(string) error

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, disp *dispatch.Dispatcher, profile config.Profile, opts render.Options) error {
	return tui.RunChat(ctx, disp, profile, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
		IsTTY:     isStdoutTTY,
	}
}
