package ffprobe

import "testing"

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2}
  ],
  "format": {
    "filename": "exam.mp4",
    "nb_streams": 2,
    "duration": "125.048000",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := result.DurationSeconds(); got != 125.048 {
		t.Fatalf("expected duration 125.048, got %v", got)
	}
	if got := result.AudioStreamCount(); got != 1 {
		t.Fatalf("expected 1 audio stream, got %d", got)
	}
	if got := result.FirstAudioStreamIndex(); got != 1 {
		t.Fatalf("expected audio stream index 1, got %d", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationSecondsMissing(t *testing.T) {
	result, err := Parse([]byte(`{"format": {}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for missing duration, got %v", got)
	}
	if got := result.FirstAudioStreamIndex(); got != -1 {
		t.Fatalf("expected -1 when no audio stream, got %d", got)
	}
}
