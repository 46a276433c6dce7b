package chat

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	accounts := store.NewCollection[domain.Account](filepath.Join(dir, "users.json"))
	chats := store.NewCollection[domain.Chat](filepath.Join(dir, "chats.json"))
	return NewManager(accounts, chats)
}

func TestSignupThenLogin(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Signup("alice", "pw1"))

	token, err := m.Login("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "user-alice-token", token)
}

func TestSignupDuplicateUsername(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Signup("alice", "pw1"))
	err := m.Signup("alice", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// The original credentials still work.
	_, err = m.Login("alice", "pw1")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Signup("alice", "pw1"))

	_, err := m.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Login("nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewChatStartsEmptyAndPrepends(t *testing.T) {
	m := newTestManager(t)

	first, err := m.NewChat("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Empty(t, first.Messages)

	second, err := m.NewChat("alice")
	require.NoError(t, err)

	summaries, err := m.ListChats("alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, first.ID, summaries[1].ID)
}

func TestListChatsTitleTruncation(t *testing.T) {
	m := newTestManager(t)

	c, err := m.NewChat("alice")
	require.NoError(t, err)

	long := strings.Repeat("x", 60)
	ok, err := m.AppendExchange("alice", c.ID, long, "reply", nil)
	require.NoError(t, err)
	require.True(t, ok)

	summaries, err := m.ListChats("alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, strings.Repeat("x", 40), summaries[0].Title)
}

func TestListChatsTitleTruncationCountsRunes(t *testing.T) {
	m := newTestManager(t)

	c, err := m.NewChat("alice")
	require.NoError(t, err)

	// 60 Devanagari characters, several bytes each
	long := strings.Repeat("द", 60)
	ok, err := m.AppendExchange("alice", c.ID, long, "reply", nil)
	require.NoError(t, err)
	require.True(t, ok)

	summaries, err := m.ListChats("alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	title := summaries[0].Title
	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, 40, utf8.RuneCountInString(title))
	assert.Equal(t, strings.Repeat("द", 40), title)
}

func TestListChatsEmptyChatPlaceholder(t *testing.T) {
	m := newTestManager(t)

	_, err := m.NewChat("alice")
	require.NoError(t, err)

	summaries, err := m.ListChats("alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.EmptyChatTitle, summaries[0].Title)
}

func TestListChatsFiltersByOwner(t *testing.T) {
	m := newTestManager(t)

	_, err := m.NewChat("alice")
	require.NoError(t, err)
	_, err = m.NewChat("bob")
	require.NoError(t, err)

	summaries, err := m.ListChats("alice")
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestGetChatNotFoundForWrongOwner(t *testing.T) {
	m := newTestManager(t)

	c, err := m.NewChat("alice")
	require.NoError(t, err)

	_, err = m.GetChat("bob", c.ID)
	assert.True(t, store.IsNotFound(err))

	got, err := m.GetChat("alice", c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestDeleteChat(t *testing.T) {
	m := newTestManager(t)

	c, err := m.NewChat("alice")
	require.NoError(t, err)

	deleted, err := m.DeleteChat("alice", "no-such-id")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = m.DeleteChat("bob", c.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "another user's delete must not remove the chat")

	deleted, err = m.DeleteChat("alice", c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	summaries, err := m.ListChats("alice")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAppendExchangeAddsOrderedPair(t *testing.T) {
	m := newTestManager(t)

	c, err := m.NewChat("alice")
	require.NoError(t, err)

	sources := []domain.Source{{URI: "https://example.org", Title: "Act"}}
	ok, err := m.AppendExchange("alice", c.ID, "question", "answer", sources)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := m.GetChat("alice", c.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, domain.SenderUser, got.Messages[0].Sender)
	assert.Equal(t, "question", got.Messages[0].Text)
	assert.Equal(t, domain.SenderAssistant, got.Messages[1].Sender)
	assert.Equal(t, "answer", got.Messages[1].Text)
	assert.Equal(t, sources, got.Messages[1].Sources)
}

func TestAppendExchangeMissingChat(t *testing.T) {
	m := newTestManager(t)

	ok, err := m.AppendExchange("alice", "missing", "q", "a", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
