package timecode

import "testing"

func TestParse(t *testing.T) {
	cases := map[string]float64{
		"90":         90,
		"1,5":        1.5,
		"01:30":      90,
		"00:01:30.5": 90.5,
		" 2:00:00 ":  7200,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "-1", "abc", "1:60", "1:2:3:4", "00::10", "NaN"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestHuman(t *testing.T) {
	if got := Human(3725); got != "01:02:05" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := Human(1.25); got != "00:00:01.250" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := Human(-3); got != "00:00:00" {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestFrames(t *testing.T) {
	if got := Frames(65.5, 30); got != "01:05:15" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := Frames(0, 0); got != "00:00:00" {
		t.Fatalf("unexpected: %s", got)
	}
}

func TestFFmpeg(t *testing.T) {
	if got := FFmpeg(12.5); got != "12.5" {
		t.Fatalf("unexpected: %s", got)
	}
}
