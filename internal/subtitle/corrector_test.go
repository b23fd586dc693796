package subtitle

import "testing"

func TestCorrectLineFixesKnownErrors(t *testing.T) {
	rules := DefaultRules()
	cases := []struct {
		in   string
		want string
	}{
		{"Uhh okey test ey", "okay test eye"},
		{"  Um, read the snellen chart  ", ", read the Snellen chart"},
		{"minus two die opters", "minus two diopters"},
		{"you have stigmatism", "you have astigmatism"},
		{"your vision is twenty twenty", "your vision is 20/20"},
		{"checking for glue coma", "checking for glaucoma"},
		{"multiple   spaces   collapse", "multiple spaces collapse"},
	}
	for _, tc := range cases {
		if got := CorrectLine(tc.in, rules); got != tc.want {
			t.Fatalf("CorrectLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCorrectLinePassThrough(t *testing.T) {
	rules := DefaultRules()
	passthrough := []string{
		"",
		"   ",
		"00:00:01.000 --> 00:00:03.000",
		"WEBVTT",
	}
	for _, line := range passthrough {
		if got := CorrectLine(line, rules); got != line {
			t.Fatalf("expected %q to pass through, got %q", line, got)
		}
	}
}

func TestCorrectIsIdempotent(t *testing.T) {
	rules := DefaultRules()
	doc := `WEBVTT

00:00:00.000 --> 00:00:02.000
Uhh okey test ey

00:00:02.000 --> 00:00:04.000
I can read the snellen chart with my left ey
`
	once := Correct(doc, rules)
	twice := Correct(once, rules)
	if once != twice {
		t.Fatalf("second correction pass changed output:\nfirst: %q\nsecond: %q", once, twice)
	}
}

func TestCorrectPreservesTimingLines(t *testing.T) {
	rules := DefaultRules()
	doc := "00:00:00.000 --> 00:00:02.000\nokey ey"
	got := Correct(doc, rules)
	want := "00:00:00.000 --> 00:00:02.000\nokay eye"
	if got != want {
		t.Fatalf("Correct = %q, want %q", got, want)
	}
}

func TestCorrectWithAlternateTable(t *testing.T) {
	rules := []Rule{MustRule(`\bfoo\b`, "bar")}
	if got := CorrectLine("Foo foo FOO", rules); got != "bar bar bar" {
		t.Fatalf("expected case-insensitive replace-all, got %q", got)
	}
}
