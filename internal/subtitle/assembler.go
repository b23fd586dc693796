package subtitle

import (
	"strings"

	"examscribe/internal/services"
)

// Assemble merges per-segment subtitle texts into one document with a single
// header. Entries whose text is empty represent segments that failed
// permanently; they are skipped, not substituted. When every entry is absent
// the pipeline must not emit an empty document, so Assemble reports a
// no-output error instead.
func Assemble(parts []string) (string, error) {
	bodies := make([]string, 0, len(parts))
	for _, part := range parts {
		body := StripHeader(part)
		if body == "" {
			continue
		}
		bodies = append(bodies, body)
	}
	if len(bodies) == 0 {
		return "", services.Wrap(services.ErrNoOutput, "assembler", "merge", "every segment failed transcription", nil)
	}
	return Header + "\n\n" + strings.Join(bodies, "\n\n") + "\n", nil
}
