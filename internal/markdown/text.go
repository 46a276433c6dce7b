package markdown

import "strings"

// FormatText renders the same markdown subset for a plain terminal.
// Unordered items get a bullet, ordered items keep their number, and
// runs of blank lines collapse to one.
func FormatText(text string) string {
	var lines []string

	for _, line := range strings.Split(text, "\n") {
		match := listItem.FindStringSubmatch(line)
		if match != nil {
			marker := match[1]
			if !strings.ContainsAny(marker, "0123456789") {
				marker = "•"
			}
			lines = append(lines, "  "+marker+" "+strings.TrimSpace(match[2]))
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	var out []string
	blank := true
	for _, line := range lines {
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}
