// Package domain defines the core types shared by the store, the HTTP API
// and the terminal client.
package domain

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Source is a grounding attribution returned alongside generated text.
// Both fields are required; entries missing either are dropped at ingestion.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Message is a single chat message. Messages are immutable once appended.
type Message struct {
	Time    time.Time `json:"time"`
	Text    string    `json:"text"`
	Sender  Sender    `json:"sender"`
	Sources []Source  `json:"sources,omitempty"`
}

// Chat is an append-only conversation owned by one account.
type Chat struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	StartTime time.Time `json:"startTime"`
	Messages  []Message `json:"messages"`
}

// ChatSummary is the list-view projection of a chat.
type ChatSummary struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	Title     string    `json:"title"`
}

// EmptyChatTitle is the summary title for a chat with no messages.
const EmptyChatTitle = "Empty chat"

// titleLimit caps summary titles at the first 40 characters of the
// opening message.
const titleLimit = 40

// NewChatID returns a fresh chat identifier. ULIDs carry a millisecond
// timestamp prefix followed by random bits, so IDs sort by creation time
// and collisions are negligible.
func NewChatID() string {
	return strings.ToLower(ulid.Make().String())
}

// Title derives the list title: the start of the first message, or the
// empty-chat placeholder. The limit counts runes so non-ASCII text is
// never cut mid-character.
func (c *Chat) Title() string {
	if len(c.Messages) == 0 {
		return EmptyChatTitle
	}
	text := c.Messages[0].Text
	if runes := []rune(text); len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return text
}

// Summary projects the chat for list responses.
func (c *Chat) Summary() ChatSummary {
	return ChatSummary{ID: c.ID, StartTime: c.StartTime, Title: c.Title()}
}

// FilterSources drops attributions missing either a URI or a title.
func FilterSources(in []Source) []Source {
	var out []Source
	for _, s := range in {
		if s.URI != "" && s.Title != "" {
			out = append(out, s)
		}
	}
	return out
}
