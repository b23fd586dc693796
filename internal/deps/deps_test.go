package deps

import "testing"

func TestCheckBinariesMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "ghost", Command: "definitely-not-a-real-binary-9000"},
		{Name: "blank", Command: "  "},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if status.Available {
			t.Fatalf("expected %q to be unavailable", status.Name)
		}
		if status.Detail == "" {
			t.Fatalf("expected detail for %q", status.Name)
		}
	}
}

func TestRequiredListsMediaTools(t *testing.T) {
	reqs := Required()
	if len(reqs) != 2 {
		t.Fatalf("expected ffmpeg and ffprobe, got %v", reqs)
	}
	if reqs[0].Command != "ffmpeg" || reqs[1].Command != "ffprobe" {
		t.Fatalf("unexpected requirements %v", reqs)
	}
}
