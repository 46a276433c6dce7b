package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arya/nyaya/internal/chat"
	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/provider"
	"github.com/arya/nyaya/internal/server"
	"github.com/arya/nyaya/internal/store"
)

type scriptedAI struct {
	text       string
	translated string
}

func (s *scriptedAI) Query(ctx context.Context, question string) (*provider.Answer, error) {
	return &provider.Answer{Text: s.text}, nil
}

func (s *scriptedAI) Translate(ctx context.Context, text, lang string) (string, error) {
	return s.translated, nil
}

func newTestClient(t *testing.T, ai server.Generator) *Client {
	t.Helper()
	dir := t.TempDir()
	accounts := store.NewCollection[domain.Account](filepath.Join(dir, "users.json"))
	chats := store.NewCollection[domain.Chat](filepath.Join(dir, "chats.json"))
	srv := httptest.NewServer(server.New(chat.NewManager(accounts, chats), ai, ":0").Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestClientAccountFlow(t *testing.T) {
	c := newTestClient(t, &scriptedAI{})
	ctx := context.Background()

	require.NoError(t, c.Signup(ctx, "alice", "pw"))

	err := c.Signup(ctx, "alice", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "Username already exists.", apiErr.Message)

	login, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user-alice-token", login.Token)

	_, err = c.Login(ctx, "alice", "nope")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestClientChatFlow(t *testing.T) {
	c := newTestClient(t, &scriptedAI{text: "the answer", translated: "uttar"})
	ctx := context.Background()

	created, err := c.NewChat(ctx, "alice")
	require.NoError(t, err)

	result, err := c.Query(ctx, "question", "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Text)

	full, err := c.Chat(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Len(t, full.Messages, 2)

	summaries, err := c.Chats(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "question", summaries[0].Title)

	translated, err := c.Translate(ctx, "the answer", "Hindi")
	require.NoError(t, err)
	assert.Equal(t, "uttar", translated)

	deleted, err := c.DeleteChat(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = c.DeleteChat(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
