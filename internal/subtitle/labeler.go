package subtitle

import "strings"

// Label prefixes alternating speaker roles onto the cue blocks of a subtitle
// document. The Nth timing-bearing block (1-indexed) receives firstRole when N
// is odd and secondRole when N is even; the prefix lands on the block's last
// text line. Blocks without a timing line pass through unmodified and do not
// advance the alternation. Role state is scoped to a single call.
func Label(text, firstRole, secondRole string) string {
	trailingNewline := strings.HasSuffix(text, "\n")
	blocks := SplitBlocks(text)
	if len(blocks) == 0 {
		return text
	}

	role := firstRole
	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if !blockHasTiming(lines) {
			continue
		}
		if idx := lastTextLine(lines); idx >= 0 {
			lines[idx] = role + ": " + lines[idx]
			blocks[i] = strings.Join(lines, "\n")
		}
		if role == firstRole {
			role = secondRole
		} else {
			role = firstRole
		}
	}

	out := strings.Join(blocks, "\n\n")
	if trailingNewline {
		out += "\n"
	}
	return out
}

func blockHasTiming(lines []string) bool {
	for _, line := range lines {
		if IsTimingLine(line) {
			return true
		}
	}
	return false
}

// lastTextLine returns the index of the last line eligible for a speaker
// prefix, or -1 when the block carries no text.
func lastTextLine(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || IsTimingLine(lines[i]) || IsHeaderLine(lines[i]) {
			continue
		}
		return i
	}
	return -1
}
