package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arya/nyaya/internal/client"
	"github.com/arya/nyaya/internal/config"
	"github.com/arya/nyaya/internal/domain"
)

const requestTimeout = 2 * time.Minute

// Message types
type authDoneMsg struct {
	username string
	signup   bool
	err      error
}

type chatsMsg struct {
	chats []domain.ChatSummary
	err   error
}

type chatMsg struct {
	chat *domain.Chat
	err  error
}

type chatDeletedMsg struct {
	deleted bool
	err     error
}

type queryDoneMsg struct {
	answer  string
	sources []domain.Source
	err     error
}

type translationMsg struct {
	id   string
	lang string
	text string
	err  error
}

// Commands

func authenticate(api *client.Client, username, password string, signup bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if signup {
			err := api.Signup(ctx, username, password)
			return authDoneMsg{username: username, signup: true, err: err}
		}

		res, err := api.Login(ctx, username, password)
		if err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{username: res.Username}
	}
}

func fetchChats(api *client.Client, username string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		chats, err := api.Chats(ctx, username)
		return chatsMsg{chats: chats, err: err}
	}
}

func openChat(api *client.Client, username, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		chat, err := api.Chat(ctx, username, id)
		return chatMsg{chat: chat, err: err}
	}
}

func createChat(api *client.Client, username string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		chat, err := api.NewChat(ctx, username)
		return chatMsg{chat: chat, err: err}
	}
}

func removeChat(api *client.Client, username, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		deleted, err := api.DeleteChat(ctx, username, id)
		return chatDeletedMsg{deleted: deleted, err: err}
	}
}

func sendQuery(api *client.Client, question, username, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := api.Query(ctx, question, username, chatID)
		if err != nil {
			return queryDoneMsg{err: err}
		}
		return queryDoneMsg{answer: res.Text, sources: res.Sources}
	}
}

func fetchTranslation(api *client.Client, id, text, lang string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		translated, err := api.Translate(ctx, text, lang)
		return translationMsg{id: id, lang: lang, text: translated, err: err}
	}
}

// Run starts the interactive chat client against the given server.
func Run(serverURL string) error {
	paths := config.GetPaths()
	if err := config.EnsureDir(paths.Data); err != nil {
		return err
	}

	m := New(client.New(serverURL), paths.PrefsFile)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
