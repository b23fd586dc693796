package subtitle

import "strings"

// Header is the literal marker required at the start of a valid WEBVTT document.
const Header = "WEBVTT"

// IsTimingLine reports whether a line carries a cue time range.
func IsTimingLine(line string) bool {
	return strings.Contains(line, "-->")
}

// IsHeaderLine reports whether a line is exactly the document header token.
func IsHeaderLine(line string) bool {
	return strings.TrimSpace(line) == Header
}

// SplitBlocks partitions subtitle text into cue blocks on blank-line
// boundaries. Line endings are normalized first.
func SplitBlocks(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	trimmed := strings.TrimSpace(normalized)
	if trimmed == "" {
		return nil
	}
	raw := strings.Split(trimmed, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		if strings.TrimSpace(block) == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// StripHeader removes a leading header token line from a subtitle body.
func StripHeader(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	trimmed := strings.TrimSpace(normalized)
	if !strings.HasPrefix(trimmed, Header) {
		return trimmed
	}
	rest := trimmed[len(Header):]
	if rest != "" && rest[0] != '\n' {
		// not a bare header line, e.g. "WEBVTTX"
		return trimmed
	}
	return strings.TrimSpace(rest)
}
