package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrypto/chatclient/internal/render"
	"github.com/ecrypto/chatclient/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

Messages are shown oldest first as user and assistant bubbles. While a reply
is pending the input is disabled and a typing indicator is shown.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	if session.Config.TUITheme != "" && !render.SetTUITheme(session.Config.TUITheme) {
		session.Logger.Warn().Str("theme", session.Config.TUITheme).Msg("unknown TUI theme, using default")
	}
	tui.UpdateTheme()

	if err := deps.TUI.RunChat(ctx, session.Dispatcher, *session.Profile, render.LoadOptions(session.Config)); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
