package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecrypto/chatclient/internal/config"
	"github.com/ecrypto/chatclient/internal/dispatch"
	apierrors "github.com/ecrypto/chatclient/internal/errors"
	"github.com/ecrypto/chatclient/internal/models"
	"github.com/ecrypto/chatclient/internal/render"
)

// Message types for the TUI
type (
	// conversationUpdatedMsg is sent by the store observer after every append
	conversationUpdatedMsg struct{}
	// busyChangedMsg is sent by the dispatcher when a request starts or settles
	busyChangedMsg struct{}
	// sentMsg is returned once Send or SendOption returns; text is the typed
	// input, empty for options
	sentMsg struct {
		err  error
		text string
	}
	copiedMsg struct {
		err error
	}
)

type screen int

const (
	screenHome screen = iota
	screenChat
)

type focusArea int

const (
	focusInput focusArea = iota
	focusOptions
)

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	dispatcher *dispatch.Dispatcher
	profile    config.Profile
	renderOpts render.Options
	copyFn     func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	screen       screen
	focus        focusArea
	optionCursor int
	busy         bool
	ready        bool
	err          error // last request error, shown as a hint under the conversation
	feedback     string

	// Dimensions
	width  int
	height int
}

// ModelOption configures a Model
type ModelOption func(*Model)

// WithoutHome starts directly in the chat view
func WithoutHome() ModelOption {
	return func(m *Model) {
		m.screen = screenChat
	}
}

// WithClipboard replaces the function used by Ctrl+Y
func WithClipboard(fn func(string) error) ModelOption {
	return func(m *Model) {
		m.copyFn = fn
	}
}

// NewChatModel creates the chat TUI for one session. ctx bounds every request
// the model starts; the dispatcher decides where they go.
func NewChatModel(ctx context.Context, d *dispatch.Dispatcher, profile config.Profile, opts render.Options, modelOpts ...ModelOption) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		ctx:        ctx,
		dispatcher: d,
		profile:    profile,
		renderOpts: opts,
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
		screen:     screenHome,
		focus:      focusInput,
	}

	if !profile.FreeText {
		m.focus = focusOptions
	} else {
		m.textarea.Focus()
	}

	for _, opt := range modelOpts {
		opt(&m)
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case tea.KeyMsg:
		if m.screen == screenHome {
			return m.updateHome(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			return m, m.copyLastReply()

		case "tab", "shift+tab":
			if m.profile.FreeText && len(m.profile.Options) > 0 {
				m.toggleFocus()
			}
			return m, nil

		case "enter":
			return m.submit()
		}

		if m.focus == focusOptions {
			m.moveOptionCursor(msg.String())
			return m, nil
		}

	case conversationUpdatedMsg:
		m.refresh()

	case busyChangedMsg:
		// the dispatcher's flag is authoritative; notifications may arrive out of order
		m.busy = m.dispatcher.Busy()
		if m.busy {
			cmds = append(cmds, m.spinner.Tick)
		}

	case sentMsg:
		m.busy = m.dispatcher.Busy()
		m.err = m.dispatcher.LastError()
		m.feedback = sendFeedback(msg.err)
		// a rejected send never reached the conversation, give the text back
		if msg.err != nil && msg.text != "" && m.textarea.Value() == "" {
			m.textarea.SetValue(msg.text)
		}
		m.refresh()

	case copiedMsg:
		if msg.err != nil {
			m.feedback = fmt.Sprintf("Could not copy: %v", msg.err)
		} else {
			m.feedback = "Copied last answer to clipboard"
		}

	case spinner.TickMsg:
		if m.busy {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if m.screen == screenChat && !m.busy && m.focus == focusInput {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "enter", " ":
		m.screen = screenChat
		m.refresh()
		if m.focus == focusInput {
			return m, textarea.Blink
		}
	}
	return m, nil
}

// submit sends the typed text or the selected option. Nothing happens while
// a request is in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy || m.dispatcher.Busy() {
		return m, nil
	}

	if m.focus == focusOptions {
		if len(m.profile.Options) == 0 {
			return m, nil
		}
		return m.startSend(m.sendOption(m.profile.Options[m.optionCursor]))
	}

	input := m.textarea.Value()
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return m, nil
	}
	if isExitCommand(trimmed) {
		return m, tea.Quit
	}

	m.textarea.Reset()
	return m.startSend(m.sendText(input))
}

func (m Model) startSend(send tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.err = nil
	m.feedback = ""
	return m, tea.Batch(send, m.spinner.Tick)
}

func (m Model) sendText(text string) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		return sentMsg{err: d.Send(ctx, text), text: text}
	}
}

func (m Model) sendOption(option string) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		return sentMsg{err: d.SendOption(ctx, option)}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.dispatcher.Store().LastFrom(models.SenderAI)
	if !ok {
		return func() tea.Msg {
			return copiedMsg{err: fmt.Errorf("no answer yet")}
		}
	}
	copyFn := m.copyFn
	return func() tea.Msg {
		return copiedMsg{err: copyFn(reply.Text)}
	}
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusOptions
		m.textarea.Blur()
	} else {
		m.focus = focusInput
		m.textarea.Focus()
	}
}

func (m *Model) moveOptionCursor(pressed string) {
	n := len(m.profile.Options)
	if n == 0 || m.busy {
		return
	}

	switch pressed {
	case "left", "h", "up", "k":
		m.optionCursor = (m.optionCursor - 1 + n) % n
	case "right", "l", "down", "j":
		m.optionCursor = (m.optionCursor + 1) % n
	default:
		if len(pressed) == 1 && pressed[0] >= '1' && pressed[0] <= '9' {
			if idx := int(pressed[0] - '1'); idx < n {
				m.optionCursor = idx
			}
		}
	}
}

func sendFeedback(err error) string {
	switch {
	case err == nil:
		return ""
	case err == apierrors.ErrBusy:
		return "Still waiting for the previous answer"
	case err == apierrors.ErrSessionClosed:
		return "Session closed"
	default:
		return err.Error()
	}
}

func isExitCommand(input string) bool {
	switch input {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// inputHeight returns the rows used by the input panel, borders included
func (m Model) inputHeight() int {
	rows := 0
	if m.profile.FreeText {
		rows += 1 + m.textarea.Height()
	}
	if len(m.profile.Options) > 0 {
		rows += 1 + len(m.profile.Options)
	}
	return rows + 3 // border and top margin
}

func (m *Model) resize() {
	headerHeight := 4 // Header panel with border and margin
	statusHeight := 2 // Status bar with margin
	hintHeight := 1   // Error hint or feedback line
	panelChrome := 4  // Messages panel border and padding

	vpHeight := m.height - headerHeight - m.inputHeight() - statusHeight - hintHeight - panelChrome
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4
	vpWidth := contentWidth - 4 // messages panel border and padding

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.viewport.KeyMap = scrollKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
}

// scrollKeyMap keeps letters and arrows free for the input and the option list
func scrollKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("ctrl+up")),
		Down:         key.NewBinding(key.WithKeys("ctrl+down")),
	}
}

// refresh re-renders the conversation and scrolls to the newest message
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 8 // bubble border and indent

	for i, msg := range m.dispatcher.Store().Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(bubbleStyles.Bubble(msg, bubbleWidth, m.renderOpts))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.screen == screenHome {
		return m.renderHome()
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	if m.dispatcher.Store().Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(m.renderInput()))

	if line := m.renderHintLine(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	var status string
	if m.busy {
		status = typingStyle.Render(m.spinner.View() + " Typing...")
	} else {
		status = onlineStyle.Render("● Online")
	}

	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ "+m.profile.Title),
		hintStyle.Render("  •  "),
		status,
	)
	return headerStyle.Width(width).Render(headerContent)
}

// renderHome renders the landing panel shown before the chat starts
func (m Model) renderHome() string {
	panelWidth := m.width - 8
	if panelWidth > 72 {
		panelWidth = 72
	}
	if panelWidth < 30 {
		panelWidth = 30
	}
	textWidth := panelWidth - 8

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Render("✦"),
		titleStyle.Render(m.profile.Title),
		"",
		subtitleStyle.Width(textWidth).Align(lipgloss.Center).Render(m.profile.Description),
		"",
		homeButtonStyle.Render("Continue"),
		"",
		hintStyle.Render("Enter continue  •  Esc quit"),
	)

	panel := homePanelStyle.Width(panelWidth).Align(lipgloss.Center).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// renderWelcome renders the welcome panel when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	subtitle := "Start a conversation by typing a message below"
	if !m.profile.FreeText {
		subtitle = "Pick one of the options below to start"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		welcomeTitleStyle.Width(width).Render("Welcome to "+m.profile.Title),
		welcomeStyle.Width(width).Render(subtitle),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderInput() string {
	var parts []string

	if m.profile.FreeText {
		if m.busy {
			parts = append(parts,
				inputLabelStyle.Render("You"),
				loadingStyle.Render(m.spinner.View()+" AI is typing..."),
			)
		} else {
			parts = append(parts, inputLabelStyle.Render("You"), m.textarea.View())
		}
	}

	if len(m.profile.Options) > 0 {
		parts = append(parts, m.renderOptions())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderOptions renders the preset list; the selection is only highlighted
// when the list has focus and no request is pending
func (m Model) renderOptions() string {
	label := "Options"
	if m.busy && !m.profile.FreeText {
		label = m.spinner.View() + " AI is typing..."
	}
	lines := []string{inputLabelStyle.Render(label)}

	active := m.focus == focusOptions && !m.busy
	for i, option := range m.profile.Options {
		text := fmt.Sprintf("%d. %s", i+1, option)
		switch {
		case !active:
			lines = append(lines, optionDisabledStyle.Render(text))
		case i == m.optionCursor:
			lines = append(lines, optionSelectedStyle.Render("▸ "+text))
		default:
			lines = append(lines, optionStyle.Render(text))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderHintLine() string {
	if m.feedback != "" {
		return feedbackStyle.Render("  " + m.feedback)
	}
	if m.err == nil {
		return ""
	}

	hint := ErrorHint(m.err)
	if status := apierrors.GetHTTPStatus(m.err); status > 0 {
		hint = fmt.Sprintf("HTTP %d. %s", status, hint)
	}
	if hint == "" {
		hint = m.err.Error()
	}
	return errorStyle.Render("  ⚠ ") + feedbackStyle.Render(hint)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	type shortcut struct {
		key  string
		desc string
	}

	shortcuts := []shortcut{{"Enter", "Send"}}
	if len(m.profile.Options) > 0 {
		shortcuts = append(shortcuts, shortcut{"←→/1-9", "Choose"})
	}
	if m.profile.FreeText && len(m.profile.Options) > 0 {
		shortcuts = append(shortcuts, shortcut{"Tab", "Switch"})
	}
	shortcuts = append(shortcuts,
		shortcut{"Ctrl+Y", "Copy"},
		shortcut{"Esc", "Quit"},
	)

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat runs the chat TUI until the user quits, then closes the session so
// a late response is discarded.
func RunChat(ctx context.Context, d *dispatch.Dispatcher, profile config.Profile, opts render.Options, modelOpts ...ModelOption) error {
	defer d.Close()

	m := NewChatModel(ctx, d, profile, opts, modelOpts...)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Notifications come from the request goroutine; p.Send must not block it
	d.Store().OnAppend(func(models.Message) {
		go p.Send(conversationUpdatedMsg{})
	})
	d.OnBusyChange(func(bool) {
		go p.Send(busyChangedMsg{})
	})

	_, err := p.Run()
	return err
}
