// Package tui provides the Bubble Tea terminal client for Nyaya.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arya/nyaya/internal/client"
	"github.com/arya/nyaya/internal/config"
	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/markdown"
	nstrings "github.com/arya/nyaya/internal/strings"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Underline(true)

	translatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")).
			Italic(true)
)

// Languages offered by the language cycler. The first entry disables
// translation entirely.
var languages = []string{
	config.NoTranslateLanguage,
	"Hindi",
	"Bengali",
	"Tamil",
	"Telugu",
	"Marathi",
	"Kannada",
}

// View represents the current view mode
type View int

const (
	ViewLogin View = iota
	ViewChats
	ViewChat
)

// Model is the main TUI model
type Model struct {
	// State
	view        View
	username    string
	chats       []domain.ChatSummary
	selectedIdx int
	current     *domain.Chat
	err         error
	status      string
	ready       bool
	quitting    bool
	busy        bool

	// Login form
	userInput  textinput.Model
	passInput  textinput.Model
	focusIdx   int
	signupMode bool

	// Translation state
	translations *Translations
	langIdx      int
	prefsPath    string

	// Components
	api      *client.Client
	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new TUI model talking to the given server.
func New(api *client.Client, prefsPath string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ui := textinput.New()
	ui.Placeholder = "username"
	ui.CharLimit = 64
	ui.Width = 30
	ui.Focus()

	pi := textinput.New()
	pi.Placeholder = "password"
	pi.CharLimit = 128
	pi.Width = 30
	pi.EchoMode = textinput.EchoPassword
	pi.EchoCharacter = '•'

	qi := textinput.New()
	qi.Placeholder = "Ask a legal question..."
	qi.CharLimit = 2000
	qi.Width = 60

	prefs := config.LoadPrefs(prefsPath)
	langIdx := 0
	for i, l := range languages {
		if l == prefs.TargetLanguage {
			langIdx = i
			break
		}
	}

	return Model{
		view:         ViewLogin,
		spinner:      s,
		userInput:    ui,
		passInput:    pi,
		input:        qi,
		api:          api,
		chats:        []domain.ChatSummary{},
		translations: NewTranslations(languages[langIdx]),
		langIdx:      langIdx,
		prefsPath:    prefsPath,
	}
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.view {
		case ViewLogin:
			return m.updateLogin(msg)
		case ViewChats:
			return m.updateChats(msg)
		case ViewChat:
			return m.updateChat(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		headerHeight := 4
		footerHeight := 4
		m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight)
		if m.current != nil {
			m.viewport.SetContent(m.renderChat())
			m.viewport.GotoBottom()
		}

	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.signup {
			m.status = "Account created. Please login."
			m.signupMode = false
			return m, nil
		}
		m.username = msg.username
		m.view = ViewChats
		m.status = ""
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, fetchChats(m.api, m.username))

	case chatsMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.chats = msg.chats
		if m.selectedIdx >= len(m.chats) {
			m.selectedIdx = max(0, len(m.chats)-1)
		}

	case chatMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.current = msg.chat
		m.view = ViewChat
		m.input.Focus()
		m.viewport.SetContent(m.renderChat())
		m.viewport.GotoBottom()

	case chatDeletedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.deleted {
			m.status = "Chat deleted."
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, fetchChats(m.api, m.username))

	case queryDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.viewport.SetContent(m.renderChat())
			return m, nil
		}
		m.err = nil
		if m.current != nil {
			m.current.Messages = append(m.current.Messages,
				domain.Message{Time: time.Now().UTC(), Text: msg.answer, Sender: domain.SenderAssistant, Sources: msg.sources},
			)
		}
		m.viewport.SetContent(m.renderChat())
		m.viewport.GotoBottom()

	case translationMsg:
		if msg.err != nil {
			m.translations.FetchFailed(msg.id)
			m.status = "Translation failed."
		} else {
			m.translations.FetchSucceeded(msg.id, msg.lang, msg.text)
		}
		m.viewport.SetContent(m.renderChat())
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update the focused text input
	switch m.view {
	case ViewLogin:
		var cmd tea.Cmd
		if m.focusIdx == 0 {
			m.userInput, cmd = m.userInput.Update(msg)
		} else {
			m.passInput, cmd = m.passInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	case ViewChat:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		m.focusIdx = (m.focusIdx + 1) % 2
		if m.focusIdx == 0 {
			m.passInput.Blur()
			return m, m.userInput.Focus()
		}
		m.userInput.Blur()
		return m, m.passInput.Focus()

	case "ctrl+s":
		m.signupMode = !m.signupMode
		m.status = ""
		m.err = nil
		return m, nil

	case "enter":
		if m.busy {
			return m, nil
		}
		username := strings.TrimSpace(m.userInput.Value())
		password := m.passInput.Value()
		if username == "" || password == "" {
			m.err = fmt.Errorf("username and password required")
			return m, nil
		}
		m.busy = true
		m.err = nil
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, authenticate(m.api, username, password, m.signupMode))
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateChats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}

	case "down", "j":
		if m.selectedIdx < len(m.chats)-1 {
			m.selectedIdx++
		}

	case "enter":
		if m.busy || len(m.chats) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, openChat(m.api, m.username, m.chats[m.selectedIdx].ID))

	case "n":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, createChat(m.api, m.username))

	case "d":
		if m.busy || len(m.chats) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, removeChat(m.api, m.username, m.chats[m.selectedIdx].ID))

	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, fetchChats(m.api, m.username))

	case "l":
		m.cycleLanguage()
		return m, nil
	}

	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.view = ViewChats
		m.current = nil
		m.input.Blur()
		m.input.SetValue("")
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, fetchChats(m.api, m.username))

	case "enter":
		question := strings.TrimSpace(m.input.Value())
		if m.busy || question == "" || m.current == nil {
			return m, nil
		}
		m.input.SetValue("")
		m.busy = true
		m.err = nil
		m.current.Messages = append(m.current.Messages,
			domain.Message{Time: time.Now().UTC(), Text: question, Sender: domain.SenderUser},
		)
		m.viewport.SetContent(m.renderChat())
		m.viewport.GotoBottom()
		return m, tea.Batch(m.spinner.Tick, sendQuery(m.api, question, m.username, m.current.ID))

	case "ctrl+t":
		return m.toggleTranslation()

	case "ctrl+l":
		m.cycleLanguage()
		m.viewport.SetContent(m.renderChat())
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// toggleTranslation flips the newest assistant message between its
// original text and the translated text for the current language.
func (m Model) toggleTranslation() (tea.Model, tea.Cmd) {
	if m.current == nil || !m.translations.Enabled() {
		return m, nil
	}
	idx := -1
	for i := len(m.current.Messages) - 1; i >= 0; i-- {
		if m.current.Messages[i].Sender == domain.SenderAssistant {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, nil
	}

	id := messageID(m.current.ID, idx)
	action, _ := m.translations.Toggle(id)
	switch action {
	case ToggleFetch:
		m.translations.BeginFetch(id)
		m.viewport.SetContent(m.renderChat())
		return m, tea.Batch(m.spinner.Tick,
			fetchTranslation(m.api, id, m.current.Messages[idx].Text, m.translations.Language()))
	case ToggleShowOriginal, ToggleShowCached:
		m.viewport.SetContent(m.renderChat())
	}
	return m, nil
}

// cycleLanguage advances the target language, persists the choice and
// resets all per-message translation state.
func (m *Model) cycleLanguage() {
	m.langIdx = (m.langIdx + 1) % len(languages)
	lang := languages[m.langIdx]
	m.translations.SetLanguage(lang)
	if err := config.SavePrefs(m.prefsPath, config.Prefs{TargetLanguage: lang}); err != nil {
		m.err = err
		return
	}
	if lang == config.NoTranslateLanguage {
		m.status = "Translation off"
	} else {
		m.status = "Translate to " + lang
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return fmt.Sprintf("\n  %s Loading...", m.spinner.View())
	}

	switch m.view {
	case ViewChats:
		return m.viewChats()
	case ViewChat:
		return m.viewChat()
	default:
		return m.viewLogin()
	}
}

func (m Model) viewLogin() string {
	var b strings.Builder

	mode := "Login"
	if m.signupMode {
		mode = "Sign Up"
	}
	b.WriteString(titleStyle.Render("⚖ Nyaya · "+mode) + "\n\n")

	b.WriteString("  " + m.userInput.View() + "\n")
	b.WriteString("  " + m.passInput.View() + "\n")

	if m.busy {
		b.WriteString(fmt.Sprintf("\n  %s Working...\n", m.spinner.View()))
	}
	if m.err != nil {
		b.WriteString("\n  " + errorStyle.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n  " + activeStyle.Render(m.status) + "\n")
	}

	b.WriteString(helpStyle.Render("  enter: submit │ tab: next field │ ctrl+s: toggle signup │ ctrl+c: quit"))
	return b.String()
}

func (m Model) viewChats() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("⚖ Nyaya · Chats") + "\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("  %s │ %s", m.username, m.languageLabel())) + "\n\n")

	if m.busy {
		b.WriteString(fmt.Sprintf("  %s Loading...\n", m.spinner.View()))
	} else if len(m.chats) == 0 {
		b.WriteString(infoStyle.Render("  No chats yet. Press n to start one.\n"))
	} else {
		for i, c := range m.chats {
			cursor := "  "
			style := infoStyle
			if i == m.selectedIdx {
				cursor = "▶ "
				style = activeStyle
			}
			line := fmt.Sprintf("%s%-44s %s",
				cursor,
				nstrings.TruncateRunes(c.Title, 44),
				c.StartTime.Format("Jan 02 15:04"),
			)
			b.WriteString(style.Render(line) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n  " + errorStyle.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n  " + infoStyle.Render(m.status) + "\n")
	}

	b.WriteString(helpStyle.Render("\n  enter: open │ n: new │ d: delete │ l: language │ r: refresh │ q: quit"))
	return b.String()
}

func (m Model) viewChat() string {
	var b strings.Builder

	title := "Chat"
	if m.current != nil {
		title = m.current.Title()
	}
	b.WriteString(titleStyle.Render("⚖ "+nstrings.TruncateRunes(title, 50)) + "\n")
	b.WriteString(infoStyle.Render("  "+m.languageLabel()) + "\n")

	b.WriteString(boxStyle.Width(m.width - 4).Render(m.viewport.View()) + "\n")

	if m.busy {
		b.WriteString(fmt.Sprintf("  %s Thinking...\n", m.spinner.View()))
	} else {
		b.WriteString("  " + m.input.View() + "\n")
	}

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render(m.err.Error()) + "\n")
	}

	help := "enter: send │ ctrl+t: translate │ ctrl+l: language │ esc: back │ ctrl+c: quit"
	b.WriteString(helpStyle.Render("  " + help))
	return b.String()
}

func (m Model) languageLabel() string {
	if !m.translations.Enabled() {
		return "translation off"
	}
	return "translate to " + m.translations.Language()
}

// renderChat builds the viewport transcript for the open chat.
func (m Model) renderChat() string {
	if m.current == nil {
		return ""
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 76
	}

	var b strings.Builder
	for i, msg := range m.current.Messages {
		if i > 0 {
			b.WriteString("\n")
		}

		if msg.Sender == domain.SenderUser {
			b.WriteString(userStyle.Render("You") + "\n")
			b.WriteString(nstrings.WordWrap(msg.Text, width) + "\n")
			continue
		}

		b.WriteString(activeStyle.Render("Nyaya") + "\n")

		id := messageID(m.current.ID, i)
		text := m.translations.Display(id, msg.Text)
		style := assistantStyle
		if m.translations.Translated(id) {
			style = translatedStyle
		}
		b.WriteString(style.Render(nstrings.WordWrap(markdown.FormatText(text), width)) + "\n")

		if m.translations.Loading(id) {
			b.WriteString(infoStyle.Render("translating...") + "\n")
		}

		for _, src := range msg.Sources {
			b.WriteString("  " + sourceStyle.Render(src.Title) + infoStyle.Render(" "+src.URI) + "\n")
		}
	}

	return b.String()
}

func messageID(chatID string, idx int) string {
	return fmt.Sprintf("%s#%d", chatID, idx)
}
