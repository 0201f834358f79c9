package sanitize

import "strings"

// stripComments removes `#`- and `//`-style line comments, best effort. It
// deliberately stops short of lexing: quote counting guards the common
// "marker inside a string" case and URL-bearing lines get a stricter scan so
// `https://` survives. Markers the simple scan misses are an accepted
// limitation. Returns the cleaned text and the number of lines a comment was
// stripped from.
func stripComments(content string) (string, int) {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, len(lines))
	removed := 0

	for i, line := range lines {
		out, stripped := stripLineComment(line)
		if stripped {
			removed++
		}
		cleaned[i] = strings.TrimRight(out, " \t")
	}
	return strings.Join(cleaned, "\n"), removed
}

func stripLineComment(line string) (string, bool) {
	if strings.Contains(line, "http://") || strings.Contains(line, "https://") {
		return stripTrailingCommentNearURL(line)
	}

	stripped := false

	// Hash comments: skip when the marker sits inside an open quote.
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		before := line[:idx]
		quotes := strings.Count(before, `"`) + strings.Count(before, `'`)
		if quotes%2 == 0 {
			line = before
			stripped = true
		}
	}

	// Slash comments: only trusted when every marker has a space before it.
	if strings.Contains(line, "//") && strings.Count(line, "//") == strings.Count(line, " //") {
		if before, _, found := strings.Cut(line, " //"); found {
			line = before
			stripped = true
		}
	}

	return line, stripped
}

// stripTrailingCommentNearURL handles lines containing URLs: only a marker
// preceded by whitespace and with no URL scheme after it is treated as a
// comment, so the `//` in `https://` is never cut.
func stripTrailingCommentNearURL(line string) (string, bool) {
	if idx, ok := markerIndex(line, "#", "://"); ok {
		return line[:idx], true
	}
	if idx, ok := markerIndex(line, "//", ":"); ok {
		return line[:idx], true
	}
	return line, false
}

// markerIndex finds the first occurrence of marker preceded by whitespace
// whose remainder does not contain forbidden. The returned index points at
// the whitespace run before the marker.
func markerIndex(line, marker, forbidden string) (int, bool) {
	from := 0
	for {
		rel := strings.Index(line[from:], marker)
		if rel < 0 {
			return 0, false
		}
		at := from + rel
		if at > 0 && isSpace(line[at-1]) && !strings.Contains(line[at:], forbidden) {
			start := at
			for start > 0 && isSpace(line[start-1]) {
				start--
			}
			return start, true
		}
		from = at + len(marker)
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }
