package render

import (
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/arya/nyaya/internal/domain"
)

func testChat() *domain.Chat {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Chat{
		ID:        "c1",
		Username:  "asha",
		StartTime: start,
		Messages: []domain.Message{
			{Time: start, Text: "What is Section 498A?", Sender: domain.SenderUser},
			{
				Time:    start.Add(time.Second),
				Text:    "Section 498A covers cruelty by a husband or his relatives.",
				Sender:  domain.SenderAssistant,
				Sources: []domain.Source{{URI: "https://example.org/ipc", Title: "IPC"}},
			},
		},
	}
}

func TestChatListPlain(t *testing.T) {
	r := New(false)

	out := r.ChatList([]domain.ChatSummary{
		{ID: "c1", Title: "What is Section 498A?", StartTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
	})

	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "What is Section 498A?")
	assert.Contains(t, out, "[Jun 01 10:00]")
}

func TestChatListEmpty(t *testing.T) {
	assert.Equal(t, "No chats found", New(true).ChatList(nil))
}

func TestTranscriptPlain(t *testing.T) {
	out := New(false).Transcript(testChat())

	assert.Contains(t, out, "What is Section 498A?")
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Nyaya")
	assert.Contains(t, out, "IPC <https://example.org/ipc>")
}

func TestTranscriptPretty(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	out := New(true).Transcript(testChat())
	assert.Contains(t, out, "─")
	assert.Contains(t, out, "Nyaya")
}

func TestStatus(t *testing.T) {
	out := New(false).Status("http://localhost:3000", true)
	assert.Equal(t, "healthy=true url=http://localhost:3000\n", out)

	out = New(false).Status("http://localhost:3000", false)
	assert.Contains(t, out, "healthy=false")
}
