package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ecrypto/chatclient/internal/config"
)

var optionCmd = &cobra.Command{
	Use:   "option <number|text>",
	Short: "Send one of the profile's preset options",
	Long: `Send a preset option to the profile's option endpoint and print the reply.

The option is chosen by its number as shown by 'chatclient options' or by
its exact text. Example:
  chatclient -p ecrypto option 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOption(cmd, args[0])
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the profile's preset options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		profile, err := config.ResolveProfile(cfg, profileFlag)
		if err != nil {
			return err
		}
		printOptions(cmd, profile)
		return nil
	},
}

func init() {
	optionCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save reply to file")
}

func runOption(cmd *cobra.Command, choice string) error {
	session, err := openSession(commandContext(cmd))
	if err != nil {
		return err
	}
	defer session.Close()

	option, err := selectOption(session.Profile.Options, choice)
	if err != nil {
		return fmt.Errorf("profile '%s': %w", session.Profile.Name, err)
	}

	return deliver(cmd, session, func() error {
		return session.Dispatcher.SendOption(commandContext(cmd), option)
	})
}

// selectOption resolves a 1-based index or an exact (case-insensitive) option text
func selectOption(options []string, choice string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no preset options")
	}

	choice = strings.TrimSpace(choice)
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("option %d out of range (1-%d)", n, len(options))
		}
		return options[n-1], nil
	}

	for _, o := range options {
		if strings.EqualFold(o, choice) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown option %q", choice)
}

func printOptions(cmd *cobra.Command, profile *config.Profile) {
	out := cmd.OutOrStdout()

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	numStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	fmt.Fprintln(out, titleStyle.Render(profile.Title))
	if len(profile.Options) == 0 {
		fmt.Fprintln(out, numStyle.Render("  (no preset options, type free text with 'chatclient ask')"))
		return
	}
	for i, o := range profile.Options {
		fmt.Fprintf(out, "  %s %s\n", numStyle.Render(fmt.Sprintf("%d.", i+1)), o)
	}
}
