// Package commands provides CLI commands for chatclient.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	profileFlag  string
	endpointFlag string
	outputFlag   string
	fileFlag     string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"

	// deps is swapped out by tests
	deps = NewDependencies()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatclient [message]",
	Short: "Terminal chat client for a local AI endpoint",
	Long: `chatclient is a terminal chat front end. Each message you send is posted
as {"message": ...} to the profile's endpoint and the "response" field of the
reply is shown as the assistant's turn.

Examples:
  chatclient                            Start interactive chat
  chatclient -p ecrypto                 Chat with the E-Crypto preset questions
  chatclient "What is Go?"              Send a single message
  chatclient -f question.md             Read the message from a file
  cat question.md | chatclient          Read the message from stdin
  chatclient "Hello" -o reply.md        Save the reply to a file
  chatclient serve                      Run the companion backend`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "chatclient %s (built %s)\n", Version, BuildTime)
			return nil
		}

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runAsk(cmd, string(data))
		}

		if hasStdin() {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			// an empty pipe (e.g. </dev/null) falls through to the other inputs
			if strings.TrimSpace(string(data)) != "" {
				return runAsk(cmd, string(data))
			}
		}

		if len(args) > 0 {
			return runAsk(cmd, args[0])
		}

		return runChat(cmd)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which ends any open chat session.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Profile to use (assistant, ecrypto, or a custom one)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Override the profile's endpoint URL")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save reply to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read message from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(optionCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// hasStdin reports whether stdin is a pipe or file rather than a terminal
func hasStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
