// Package client is a typed HTTP client for the nyaya API, used by the
// terminal chat UI and the export command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arya/nyaya/internal/domain"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client talks to a running nyaya server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// LoginResult is the successful login response.
type LoginResult struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// QueryResult is the answer to a legal question.
type QueryResult struct {
	Text    string          `json:"text"`
	Sources []domain.Source `json:"sources"`
}

// Health reports whether the server is reachable.
func (c *Client) Health(ctx context.Context) bool {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return false
	}
	return status.Status == "ok"
}

// Signup registers an account.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.post(ctx, "/signup", body, &struct{}{})
}

// Login checks credentials and returns the session token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Chats lists chat summaries for a user.
func (c *Client) Chats(ctx context.Context, username string) ([]domain.ChatSummary, error) {
	var summaries []domain.ChatSummary
	path := "/chats?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Chat fetches a full chat including messages.
func (c *Client) Chat(ctx context.Context, username, id string) (*domain.Chat, error) {
	var chat domain.Chat
	path := "/chats/" + url.PathEscape(id) + "?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// NewChat creates an empty chat.
func (c *Client) NewChat(ctx context.Context, username string) (*domain.Chat, error) {
	var chat domain.Chat
	if err := c.post(ctx, "/chats/new", map[string]string{"username": username}, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat removes a chat; the flag reports whether a removal occurred.
func (c *Client) DeleteChat(ctx context.Context, username, id string) (bool, error) {
	var result struct {
		Success bool `json:"success"`
	}
	path := "/chats/" + url.PathEscape(id) + "?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}

// Query asks a question, optionally recording it into a chat.
func (c *Client) Query(ctx context.Context, question, username, chatID string) (*QueryResult, error) {
	var result QueryResult
	body := map[string]string{"question": question}
	if username != "" && chatID != "" {
		body["username"] = username
		body["chatId"] = chatID
	}
	if err := c.post(ctx, "/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Translate renders text into the target language.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	body := map[string]string{"text": text, "targetLanguage": targetLanguage}
	if err := c.post(ctx, "/translate", body, &result); err != nil {
		return "", err
	}
	return result.TranslatedText, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		msg := ""
		if json.Unmarshal(data, &apiErr) == nil {
			msg = apiErr.Error
			if apiErr.Details != "" {
				msg += ": " + apiErr.Details
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
