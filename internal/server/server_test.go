package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arya/nyaya/internal/chat"
	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/provider"
	"github.com/arya/nyaya/internal/store"
)

// stubAI scripts provider responses for handler tests.
type stubAI struct {
	answer       *provider.Answer
	answerErr    error
	translated   string
	translateErr error
	queries      []string
}

func (s *stubAI) Query(ctx context.Context, question string) (*provider.Answer, error) {
	s.queries = append(s.queries, question)
	if s.answerErr != nil {
		return nil, s.answerErr
	}
	return s.answer, nil
}

func (s *stubAI) Translate(ctx context.Context, text, lang string) (string, error) {
	if s.translateErr != nil {
		return "", s.translateErr
	}
	return s.translated, nil
}

func newTestServer(t *testing.T, ai Generator) *Server {
	t.Helper()
	dir := t.TempDir()
	accounts := store.NewCollection[domain.Account](filepath.Join(dir, "users.json"))
	chats := store.NewCollection[domain.Chat](filepath.Join(dir, "chats.json"))
	return New(chat.NewManager(accounts, chats), ai, ":0")
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestSignupLoginScenario(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "POST", "/signup", map[string]string{"username": "alice", "password": "pw1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, "POST", "/signup", map[string]string{"username": "alice", "password": "pw2"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, "POST", "/login", map[string]string{"username": "alice", "password": "pw1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Success  bool   `json:"success"`
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	decode(t, rec, &login)
	assert.True(t, login.Success)
	assert.Equal(t, "user-alice-token", login.Token)
	assert.Equal(t, "alice", login.Username)

	rec = do(t, s, "POST", "/login", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupMissingFields(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "POST", "/signup", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, "POST", "/signup", map[string]string{"password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListChatsRequiresUsername(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "GET", "/chats", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryAppendsToOwnedChat(t *testing.T) {
	ai := &stubAI{answer: &provider.Answer{
		Text:    "Dowry is prohibited under the 1961 Act.",
		Sources: []domain.Source{{URI: "https://example.org", Title: "Act"}},
	}}
	s := newTestServer(t, ai)

	rec := do(t, s, "POST", "/chats/new", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	var created domain.Chat
	decode(t, rec, &created)
	assert.Empty(t, created.Messages)

	rec = do(t, s, "POST", "/query", map[string]string{
		"question": "What is the dowry law?",
		"username": "alice",
		"chatId":   created.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Text    string          `json:"text"`
		Sources []domain.Source `json:"sources"`
	}
	decode(t, rec, &result)
	assert.Equal(t, ai.answer.Text, result.Text)
	require.Len(t, result.Sources, 1)

	rec = do(t, s, "GET", "/chats/"+created.ID+"?username=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Chat
	decode(t, rec, &got)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, domain.SenderUser, got.Messages[0].Sender)
	assert.Equal(t, "What is the dowry law?", got.Messages[0].Text)
	assert.Equal(t, domain.SenderAssistant, got.Messages[1].Sender)
	assert.Equal(t, ai.answer.Sources, got.Messages[1].Sources)
}

func TestQueryWithoutChatStillAnswers(t *testing.T) {
	ai := &stubAI{answer: &provider.Answer{Text: "answer"}}
	s := newTestServer(t, ai)

	rec := do(t, s, "POST", "/query", map[string]string{"question": "q"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sources":[]`)
}

func TestQueryMissingQuestion(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "POST", "/query", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryProviderFailure(t *testing.T) {
	ai := &stubAI{answerErr: &provider.ExhaustedError{Attempts: 3, Detail: "rate limited"}}
	s := newTestServer(t, ai)

	rec := do(t, s, "POST", "/query", map[string]string{"question": "q"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "Failed to communicate with the AI service.", resp["error"])
	assert.Equal(t, "rate limited", resp["details"])
}

func TestGetChatNotFound(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "GET", "/chats/missing?username=alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChatOverHTTP(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "POST", "/chats/new", map[string]string{"username": "alice"})
	var created domain.Chat
	decode(t, rec, &created)

	rec = do(t, s, "DELETE", "/chats/missing?username=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	rec = do(t, s, "DELETE", "/chats/"+created.ID+"?username=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	rec = do(t, s, "GET", "/chats?username=alice", nil)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestTranslate(t *testing.T) {
	ai := &stubAI{translated: "अनुवाद"}
	s := newTestServer(t, ai)

	rec := do(t, s, "POST", "/translate", map[string]string{"text": "hello", "targetLanguage": "Hindi"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "अनुवाद", resp["translatedText"])
}

func TestTranslateMissingFields(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	rec := do(t, s, "POST", "/translate", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslateProviderFailure(t *testing.T) {
	ai := &stubAI{translateErr: errors.New("boom")}
	s := newTestServer(t, ai)

	rec := do(t, s, "POST", "/translate", map[string]string{"text": "hello", "targetLanguage": "Hindi"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to perform translation.")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &stubAI{})

	req := httptest.NewRequest("OPTIONS", "/query", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
