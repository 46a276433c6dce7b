package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arya/nyaya/internal/domain"
)

func sampleChat() *domain.Chat {
	start := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	return &domain.Chat{
		ID:        "chat-1",
		Username:  "asha",
		StartTime: start,
		Messages: []domain.Message{
			{Time: start, Text: "What is the penalty for dowry?", Sender: domain.SenderUser},
			{
				Time:   start.Add(2 * time.Second),
				Text:   "Under the Dowry Prohibition Act:\n- Imprisonment up to 5 years\n- Fine",
				Sender: domain.SenderAssistant,
				Sources: []domain.Source{
					{URI: "https://example.org/dowry-act", Title: "Dowry Prohibition Act, 1961"},
				},
			},
		},
	}
}

func TestRenderProducesCompleteDocument(t *testing.T) {
	out, err := NewHTML(nil).Render(sampleChat())
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>What is the penalty for dowry?</title>")
	assert.Contains(t, doc, "user-message")
	assert.Contains(t, doc, "assistant-message")
	assert.Contains(t, doc, "<ul><li>Imprisonment up to 5 years</li><li>Fine</li></ul>")
	assert.Contains(t, doc, `<a href="https://example.org/dowry-act">Dowry Prohibition Act, 1961</a>`)
}

func TestRenderEscapesContent(t *testing.T) {
	chat := sampleChat()
	chat.Messages[0].Text = "<script>alert(1)</script>"

	out, err := NewHTML(nil).Render(chat)
	require.NoError(t, err)

	doc := string(out)
	assert.NotContains(t, doc, "<script>alert(1)</script>")
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestRenderEmptyChatUsesPlaceholderTitle(t *testing.T) {
	chat := &domain.Chat{
		ID:        "chat-2",
		Username:  "asha",
		StartTime: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		Messages:  []domain.Message{},
	}

	out, err := NewHTML(nil).Render(chat)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Empty chat</title>")
}

func TestRenderRejectsInvalidChat(t *testing.T) {
	_, err := NewHTML(nil).Render(nil)
	assert.Error(t, err)

	_, err = NewHTML(nil).Render(&domain.Chat{ID: "x"})
	assert.Error(t, err)
}

func TestRenderWithoutSources(t *testing.T) {
	out, err := NewHTML(&Options{IncludeTimestamps: false, IncludeSources: false}).Render(sampleChat())
	require.NoError(t, err)

	doc := string(out)
	assert.NotContains(t, doc, "class=\"sources\"")
	assert.NotContains(t, doc, "class=\"timestamp\"")
}