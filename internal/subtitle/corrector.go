package subtitle

import (
	"regexp"
	"strings"
)

// Rule is one ordered substitution in the correction table. Patterns match
// case-insensitively; later rules operate on the output of earlier rules.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// MustRule compiles a case-insensitive correction rule.
func MustRule(pattern, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile("(?i)" + pattern), Replacement: replacement}
}

// DefaultRules returns the versioned table of recurring mis-transcriptions
// observed in eye-examination recordings. Order matters: fillers are removed
// before domain terms are repaired.
func DefaultRules() []Rule {
	return []Rule{
		MustRule(`\b(?:uh+|um+|erm+|ahem)\b`, ""),
		MustRule(`\bokey\b`, "okay"),
		MustRule(`\bey\b`, "eye"),
		MustRule(`\beye site\b`, "eyesight"),
		MustRule(`\bsnellen\b`, "Snellen"),
		MustRule(`\bdie opters\b`, "diopters"),
		MustRule(`\bdie opter\b`, "diopter"),
		MustRule(`\bretna\b`, "retina"),
		MustRule(`\bstigmatism\b`, "astigmatism"),
		MustRule(`\bgl(?:ue|aw) coma\b`, "glaucoma"),
		MustRule(`\bvisual equity\b`, "visual acuity"),
		MustRule(`\btwenty twenty\b`, "20/20"),
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CorrectLine applies the rule table to one line of subtitle text. Empty
// lines, timing lines, and the document header pass through unchanged; all
// other lines get every rule applied in table order followed by whitespace
// collapsing.
func CorrectLine(line string, rules []Rule) string {
	if strings.TrimSpace(line) == "" || IsTimingLine(line) || IsHeaderLine(line) {
		return line
	}
	for _, rule := range rules {
		line = rule.Pattern.ReplaceAllString(line, rule.Replacement)
	}
	line = whitespaceRun.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// Correct applies the rule table line-by-line across a subtitle document.
func Correct(text string, rules []Rule) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = CorrectLine(line, rules)
	}
	return strings.Join(lines, "\n")
}
