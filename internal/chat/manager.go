// Package chat implements account and chat-history operations over the
// JSON file collections.
package chat

import (
	"fmt"
	"time"

	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/store"
)

// Manager handles account and chat lifecycle. All mutations run inside
// the owning collection's lock, so two requests cannot interleave their
// read-modify-write cycles.
type Manager struct {
	accounts *store.Collection[domain.Account]
	chats    *store.Collection[domain.Chat]
}

// NewManager creates a Manager over the two collections.
func NewManager(accounts *store.Collection[domain.Account], chats *store.Collection[domain.Chat]) *Manager {
	return &Manager{accounts: accounts, chats: chats}
}

// Signup registers a new account. Uniqueness is enforced by a linear
// scan inside the collection lock.
func (m *Manager) Signup(username, password string) error {
	return m.accounts.Update(func(accounts []domain.Account) ([]domain.Account, error) {
		for _, a := range accounts {
			if a.Username == username {
				return nil, ErrUsernameTaken
			}
		}
		return append(accounts, domain.Account{Username: username, Password: password}), nil
	})
}

// Login checks credentials and returns the session token. The token is a
// deterministic function of the username only; it is a compatibility
// placeholder, not an authentication guarantee.
func (m *Manager) Login(username, password string) (string, error) {
	accounts, err := m.accounts.Load()
	if err != nil {
		return "", err
	}
	for _, a := range accounts {
		if a.Username == username && a.Password == password {
			return Token(username), nil
		}
	}
	return "", ErrInvalidCredentials
}

// Token derives the opaque session token for a username.
func Token(username string) string {
	return fmt.Sprintf("user-%s-token", username)
}

// ListChats returns summaries for every chat owned by username, in
// persisted order (newest chats first, as NewChat prepends).
func (m *Manager) ListChats(username string) ([]domain.ChatSummary, error) {
	chats, err := m.chats.Load()
	if err != nil {
		return nil, err
	}
	summaries := []domain.ChatSummary{}
	for i := range chats {
		if chats[i].Username == username {
			summaries = append(summaries, chats[i].Summary())
		}
	}
	return summaries, nil
}

// GetChat returns the full chat including all messages.
func (m *Manager) GetChat(username, id string) (*domain.Chat, error) {
	chats, err := m.chats.Load()
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if chats[i].ID == id && chats[i].Username == username {
			return &chats[i], nil
		}
	}
	return nil, store.NewNotFoundError("chat", id)
}

// NewChat creates an empty chat and prepends it to the collection so the
// newest chat lists first.
func (m *Manager) NewChat(username string) (*domain.Chat, error) {
	created := domain.Chat{
		ID:        domain.NewChatID(),
		Username:  username,
		StartTime: time.Now().UTC(),
		Messages:  []domain.Message{},
	}
	err := m.chats.Update(func(chats []domain.Chat) ([]domain.Chat, error) {
		return append([]domain.Chat{created}, chats...), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteChat removes the chat if username owns it. The returned flag
// reports whether a removal occurred.
func (m *Manager) DeleteChat(username, id string) (bool, error) {
	deleted := false
	err := m.chats.Update(func(chats []domain.Chat) ([]domain.Chat, error) {
		kept := chats[:0]
		for _, c := range chats {
			if c.ID == id && c.Username == username {
				deleted = true
				continue
			}
			kept = append(kept, c)
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// AppendExchange appends a user message and the assistant's reply as a
// pair to an existing owned chat. The returned flag reports whether the
// chat was found; a missing chat is not an error for the query flow.
func (m *Manager) AppendExchange(username, chatID, question, answer string, sources []domain.Source) (bool, error) {
	appended := false
	err := m.chats.Update(func(chats []domain.Chat) ([]domain.Chat, error) {
		for i := range chats {
			if chats[i].ID != chatID || chats[i].Username != username {
				continue
			}
			now := time.Now().UTC()
			chats[i].Messages = append(chats[i].Messages,
				domain.Message{Time: now, Text: question, Sender: domain.SenderUser},
				domain.Message{Time: now, Text: answer, Sender: domain.SenderAssistant, Sources: sources},
			)
			appended = true
			break
		}
		return chats, nil
	})
	if err != nil {
		return false, err
	}
	return appended, nil
}
