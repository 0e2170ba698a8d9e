package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apierrors "github.com/ecrypto/chatclient/internal/errors"
	"github.com/ecrypto/chatclient/internal/models"
	"github.com/ecrypto/chatclient/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorError    = lipgloss.Color("#f7768e")
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a single message and print the reply",
	Long: `Send one message to the profile's endpoint and print the reply.

The message is taken from the argument, from --file, or from stdin.
When stdout is not a terminal only the raw reply text is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readMessage(cmd, args)
		if err != nil {
			return err
		}
		return runAsk(cmd, text)
	},
}

func init() {
	askCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save reply to file")
	askCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read message from file")
}

// readMessage picks the message from --file, then the argument, then stdin
func readMessage(cmd *cobra.Command, args []string) (string, error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	if hasStdin() {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("no message given: pass it as an argument, with --file, or on stdin")
}

// runAsk sends one free-text message and prints the reply
func runAsk(cmd *cobra.Command, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("message cannot be empty")
	}

	session, err := openSession(commandContext(cmd))
	if err != nil {
		return err
	}
	defer session.Close()

	if !session.Profile.FreeText {
		return fmt.Errorf("profile '%s' only accepts preset options; use 'chatclient option'", session.Profile.Name)
	}

	return deliver(cmd, session, func() error {
		return session.Dispatcher.Send(commandContext(cmd), text)
	})
}

var errInterrupted = errors.New("interrupted before the reply arrived")

// deliver runs send under a spinner and prints the assistant's reply.
// A failed request prints the profile's error text and the error details
// to stderr and is returned so the process exits non-zero.
func deliver(cmd *cobra.Command, session *chatSession, send func() error) error {
	rawOutput := !deps.IsTTY()
	stderr := cmd.ErrOrStderr()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Waiting for "+session.Profile.Title, stderr)
		spin.start()
	}

	if err := send(); err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return err
	}

	// the dispatcher drops a reply that lands after the session ended
	if session.Dispatcher.Closed() {
		if spin != nil {
			spin.stopWithError()
		}
		return errInterrupted
	}

	if reqErr := session.Dispatcher.LastError(); reqErr != nil {
		if spin != nil {
			spin.stopWithError()
		}
		fmt.Fprintln(stderr, session.Profile.ErrorMessage)
		fmt.Fprintln(stderr, formatErrorMessage(reqErr, "Request failed"))
		return fmt.Errorf("request failed: %w", reqErr)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	reply, ok := session.Dispatcher.Store().LastFrom(models.SenderAI)
	if !ok {
		return errors.New("no reply received")
	}

	return printReply(cmd, session, reply, rawOutput)
}

func printReply(cmd *cobra.Command, session *chatSession, reply models.Message, rawOutput bool) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if session.Config.CopyToClipboard && deps.Clipboard != nil {
		if err := deps.Clipboard(reply.Text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(stderr, warnMsg)
		} else if !rawOutput {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(stderr, clipMsg)
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(reply.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", outputFlag),
			)
			fmt.Fprintln(stderr, successMsg)
		}
		return nil
	}

	if rawOutput {
		fmt.Fprint(stdout, reply.Text)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Fprintln(stderr)
	fmt.Fprintln(stdout, render.Bubble(reply, bubbleWidth, render.LoadOptions(session.Config)))
	return nil
}

// spinner handles the animated loading indicator
type spinner struct {
	message string
	out     io.Writer
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner drawing on out
func newSpinner(message string, out io.Writer) *spinner {
	return &spinner{
		message: message,
		out:     out,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Raise timeout_seconds or try again"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Is the endpoint running? Start one with 'chatclient serve'"))
		case apierrors.IsParseError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The endpoint must answer with a JSON object containing \"response\""))
		}
	}

	return sb.String()
}
