// Package export renders chat transcripts as standalone HTML documents
// with embedded CSS, suitable for sharing or printing.
package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/markdown"
)

// Options controls transcript rendering.
type Options struct {
	// IncludeTimestamps adds a timestamp header to every message.
	IncludeTimestamps bool

	// IncludeSources lists grounding sources under assistant messages.
	IncludeSources bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() *Options {
	return &Options{
		IncludeTimestamps: true,
		IncludeSources:    true,
	}
}

// HTML renders a chat as a complete HTML page.
type HTML struct {
	options *Options
}

// NewHTML creates an HTML transcript renderer.
func NewHTML(opts *Options) *HTML {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTML{options: opts}
}

// Render converts a chat to an HTML document.
func (e *HTML) Render(chat *domain.Chat) ([]byte, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	if chat.StartTime.IsZero() {
		return nil, fmt.Errorf("chat has no start time")
	}

	title := chat.Title()

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", chat.StartTime.Format(time.RFC3339)))
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Started:</strong> %s</span>\n",
		chat.StartTime.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(chat.Messages)))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for i := range chat.Messages {
		sb.WriteString(e.renderMessage(&chat.Messages[i]))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString("            <p>Exported from <strong>Nyaya</strong></p>\n")
	sb.WriteString("        </footer>\n")

	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the extension for rendered transcripts.
func (e *HTML) FileExtension() string {
	return ".html"
}

func (e *HTML) renderMessage(msg *domain.Message) string {
	var sb strings.Builder

	role := string(msg.Sender)
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", role))

	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", roleLabel(msg.Sender)))
	if e.options.IncludeTimestamps && !msg.Time.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n",
			msg.Time.Format("Jan 02 15:04")))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(markdown.FormatHTML(html.EscapeString(msg.Text)))
	sb.WriteString("\n                </div>\n")

	if e.options.IncludeSources && len(msg.Sources) > 0 {
		sb.WriteString("                <div class=\"sources\">\n")
		sb.WriteString("                    <strong>Sources</strong>\n")
		sb.WriteString("                    <ul>\n")
		for _, src := range msg.Sources {
			sb.WriteString(fmt.Sprintf("                        <li><a href=\"%s\">%s</a></li>\n",
				html.EscapeString(src.URI), html.EscapeString(src.Title)))
		}
		sb.WriteString("                    </ul>\n")
		sb.WriteString("                </div>\n")
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

func roleLabel(s domain.Sender) string {
	switch s {
	case domain.SenderUser:
		return "You"
	case domain.SenderAssistant:
		return "Nyaya"
	default:
		return string(s)
	}
}

const pageCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            font-size: 16px;
            line-height: 1.6;
            color: #24292e;
            background: #f7f8fa;
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: #ffffff;
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }

        .header {
            padding: 32px;
            background: #eef1f5;
            border-bottom: 2px solid #e1e4e8;
        }

        .header h1 {
            font-size: 24px;
            margin-bottom: 12px;
        }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: #586069;
        }

        .conversation { padding: 24px 32px; }

        .message {
            margin-bottom: 24px;
            padding: 20px;
            border-radius: 8px;
            border-left: 4px solid transparent;
        }

        .user-message {
            background: #f6f8fa;
            border-left-color: #0366d6;
        }

        .assistant-message {
            background: #ffffff;
            border: 1px solid #e1e4e8;
            border-left: 4px solid #22863a;
        }

        .message-header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 12px;
            font-size: 14px;
        }

        .role-label { font-weight: 600; }

        .timestamp {
            color: #6a737d;
            font-size: 13px;
        }

        .message-content ul, .message-content ol {
            margin: 8px 0 8px 24px;
        }

        .sources {
            margin-top: 12px;
            padding-top: 12px;
            border-top: 1px solid #e1e4e8;
            font-size: 14px;
        }

        .sources ul { margin: 4px 0 0 24px; }

        .sources a { color: #0366d6; }

        .footer {
            padding: 20px 32px;
            text-align: center;
            font-size: 14px;
            color: #6a737d;
            border-top: 1px solid #e1e4e8;
        }

        @media print {
            body { padding: 0; }
            .container { box-shadow: none; border-radius: 0; }
            .message { page-break-inside: avoid; }
        }
    </style>
`
