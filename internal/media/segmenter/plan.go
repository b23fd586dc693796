package segmenter

import (
	"fmt"

	"examscribe/internal/services"
)

// Span is one contiguous time slice of the source media, expressed in seconds
// from the start of the recording. Spans cover [0, total) exactly, in order,
// without overlap.
type Span struct {
	Index int
	Start float64
	End   float64
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Plan slices a total duration into chunk-sized spans. All spans except
// possibly the last have exactly chunkSeconds duration; the last span absorbs
// the remainder.
func Plan(totalSeconds float64, chunkSeconds int) ([]Span, error) {
	if chunkSeconds <= 0 {
		return nil, services.Wrap(services.ErrValidation, "segmenter", "plan",
			fmt.Sprintf("chunk duration must be positive, got %d", chunkSeconds), nil)
	}
	if totalSeconds <= 0 {
		return nil, services.Wrap(services.ErrDecode, "segmenter", "plan", "source has no playable duration", nil)
	}

	chunk := float64(chunkSeconds)
	spans := make([]Span, 0, int(totalSeconds/chunk)+1)
	for start := 0.0; start < totalSeconds; start += chunk {
		end := start + chunk
		if end > totalSeconds {
			end = totalSeconds
		}
		spans = append(spans, Span{Index: len(spans), Start: start, End: end})
	}
	return spans, nil
}
