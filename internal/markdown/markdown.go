// Package markdown converts a constrained markdown subset into HTML
// fragments.
//
// The input is processed line by line in a single forward pass. The only
// state is the currently open list, if any: "- " and "* " open an
// unordered list, "1. " style prefixes an ordered one. Other non-empty
// lines become inline spans with a trailing break, empty lines a bare
// break. Nested lists are not supported.
package markdown

import (
	"regexp"
	"strings"
)

var listItem = regexp.MustCompile(`^([\-\*]|\d+\.)\s+(.*)`)

type listKind string

const (
	listNone      listKind = ""
	listUnordered listKind = "ul"
	listOrdered   listKind = "ol"
)

// FormatHTML renders text as an HTML fragment.
func FormatHTML(text string) string {
	var html strings.Builder
	open := listNone

	for _, line := range strings.Split(text, "\n") {
		match := listItem.FindStringSubmatch(line)
		if match != nil {
			kind := listUnordered
			if strings.ContainsAny(match[1], "0123456789") {
				kind = listOrdered
			}
			item := "<li>" + strings.TrimSpace(match[2]) + "</li>"

			switch open {
			case kind:
				html.WriteString(item)
			case listNone:
				html.WriteString("<" + string(kind) + ">" + item)
				open = kind
			default:
				html.WriteString("</" + string(open) + ">")
				html.WriteString("<" + string(kind) + ">" + item)
				open = kind
			}
			continue
		}

		if open != listNone {
			html.WriteString("</" + string(open) + ">")
			open = listNone
		}
		if strings.TrimSpace(line) != "" {
			html.WriteString("<span>" + line + "</span><br>")
		} else {
			html.WriteString("<br>")
		}
	}

	if open != listNone {
		html.WriteString("</" + string(open) + ">")
	}

	return cleanup(html.String())
}

// cleanup collapses redundant consecutive breaks and removes breaks
// adjacent to list boundaries.
func cleanup(html string) string {
	for strings.Contains(html, "<br><br>") {
		html = strings.ReplaceAll(html, "<br><br>", "<br>")
	}
	html = strings.ReplaceAll(html, "<br><ul>", "<ul>")
	html = strings.ReplaceAll(html, "</ul><br>", "</ul>")
	html = strings.ReplaceAll(html, "<br><ol>", "<ol>")
	html = strings.ReplaceAll(html, "</ol><br>", "</ol>")
	return html
}
