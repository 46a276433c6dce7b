package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/markdown"
)

// Renderer handles output formatting for chat data.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// ChatList formats a list of chat summaries.
func (r *Renderer) ChatList(chats []domain.ChatSummary) string {
	if len(chats) == 0 {
		return "No chats found"
	}

	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Chats\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	for _, c := range chats {
		timeStr := c.StartTime.Format("Jan 02 15:04")
		if r.pretty {
			fmt.Fprintf(&sb, "%s  %s  %s\n",
				color.HiBlackString(timeStr), color.YellowString(c.ID), c.Title)
		} else {
			fmt.Fprintf(&sb, "[%s] %s %s\n", timeStr, c.ID, c.Title)
		}
	}

	return sb.String()
}

// Transcript formats a full chat for the terminal.
func (r *Renderer) Transcript(chat *domain.Chat) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString(chat.Title()) + "\n")
		sb.WriteString(strings.Repeat("─", 60) + "\n\n")
	} else {
		sb.WriteString(chat.Title() + "\n\n")
	}

	for _, msg := range chat.Messages {
		r.formatMessage(&sb, msg)
	}

	return sb.String()
}

func (r *Renderer) formatMessage(sb *strings.Builder, msg domain.Message) {
	timeStr := msg.Time.Format("15:04:05")

	label := "You"
	colored := color.BlueString(label)
	if msg.Sender == domain.SenderAssistant {
		label = "Nyaya"
		colored = color.GreenString(label)
	}

	if r.pretty {
		fmt.Fprintf(sb, "%s %s\n", colored, color.HiBlackString(timeStr))
	} else {
		fmt.Fprintf(sb, "[%s] %s\n", timeStr, label)
	}

	sb.WriteString(markdown.FormatText(msg.Text) + "\n")

	for _, src := range msg.Sources {
		if r.pretty {
			fmt.Fprintf(sb, "  %s %s\n", color.CyanString(src.Title), color.HiBlackString(src.URI))
		} else {
			fmt.Fprintf(sb, "  %s <%s>\n", src.Title, src.URI)
		}
	}

	sb.WriteString("\n")
}

// Status formats a server health report.
func (r *Renderer) Status(url string, healthy bool) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Nyaya Status\n"))
		sb.WriteString(strings.Repeat("─", 40) + "\n")

		if healthy {
			fmt.Fprintf(&sb, "  Server:  %s\n", color.GreenString("ok"))
		} else {
			fmt.Fprintf(&sb, "  Server:  %s\n", color.RedString("unreachable"))
		}
		fmt.Fprintf(&sb, "  URL:     %s\n", url)
	} else {
		fmt.Fprintf(&sb, "healthy=%v url=%s\n", healthy, url)
	}

	return sb.String()
}
