package platform

import (
	"math"
	"testing"
)

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected ProgressEvent
		ok       bool
	}{
		{
			name:     "download percent",
			line:     "[download]  42.3% of 10.98MiB at 2.50MiB/s ETA 00:03",
			expected: ProgressEvent{Kind: EventPercent, Percent: 42.3},
			ok:       true,
		},
		{
			name:     "download percent integer",
			line:     "[download] 100% of 10.98MiB in 00:04",
			expected: ProgressEvent{Kind: EventPercent, Percent: 100},
			ok:       true,
		},
		{
			name:     "destination",
			line:     "[download] Destination: /tmp/out/My Video.f137.mp4",
			expected: ProgressEvent{Kind: EventDestination, Path: "/tmp/out/My Video.f137.mp4"},
			ok:       true,
		},
		{
			name:     "merger",
			line:     `[Merger] Merging formats into "/tmp/out/My Video.mp4"`,
			expected: ProgressEvent{Kind: EventMerged, Path: "/tmp/out/My Video.mp4"},
			ok:       true,
		},
		{
			name:     "ffmpeg timecode",
			line:     "frame=  961 fps=120 q=28.0 size=    4864KiB time=00:01:30.50 bitrate=1200.0kbits/s",
			expected: ProgressEvent{Kind: EventTimecode, Seconds: 90.5},
			ok:       true,
		},
		{
			name:     "size in kilobytes",
			line:     "size=    2048K time unavailable",
			expected: ProgressEvent{Kind: EventSize, SizeMB: 2},
			ok:       true,
		},
		{
			name:     "size in megabytes",
			line:     "Lsize=   12.5MB",
			expected: ProgressEvent{Kind: EventSize, SizeMB: 12.5},
			ok:       true,
		},
		{
			name: "unrecognized",
			line: "[youtube] dQw4w9WgXcQ: Downloading webpage",
			ok:   false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := ParseProgressLine(test.line)
			if ok != test.ok {
				t.Fatalf("ParseProgressLine(%q) ok = %v, expected %v", test.line, ok, test.ok)
			}
			if !ok {
				return
			}
			if got.Kind != test.expected.Kind {
				t.Errorf("Kind = %v, expected %v", got.Kind, test.expected.Kind)
			}
			if math.Abs(got.Percent-test.expected.Percent) > 1e-9 {
				t.Errorf("Percent = %v, expected %v", got.Percent, test.expected.Percent)
			}
			if got.Path != test.expected.Path {
				t.Errorf("Path = %q, expected %q", got.Path, test.expected.Path)
			}
			if math.Abs(got.Seconds-test.expected.Seconds) > 1e-9 {
				t.Errorf("Seconds = %v, expected %v", got.Seconds, test.expected.Seconds)
			}
			if math.Abs(got.SizeMB-test.expected.SizeMB) > 1e-9 {
				t.Errorf("SizeMB = %v, expected %v", got.SizeMB, test.expected.SizeMB)
			}
		})
	}
}

func TestParseOutputSizeMB(t *testing.T) {
	// size= shares the stats line with time=, so it must be extractable
	// even when the line classifies as a timecode event.
	line := "frame=  961 fps=120 q=28.0 size=    4864KiB time=00:01:30.50 bitrate=1200.0kbits/s"
	got, ok := ParseOutputSizeMB(line)
	if !ok {
		t.Fatalf("ParseOutputSizeMB(%q) found nothing", line)
	}
	if math.Abs(got-4.75) > 1e-9 {
		t.Errorf("SizeMB = %v, expected 4.75", got)
	}

	if _, ok := ParseOutputSizeMB("frame= 10 q=28.0"); ok {
		t.Error("Expected no size on a line without the token")
	}
}

func TestProgressTrackerDiscardsFirstSample(t *testing.T) {
	tracker := NewProgressTracker()

	var updates []float64
	for _, p := range []float64{0.0, 15.0, 42.0} {
		if value, ok := tracker.Update(p); ok {
			updates = append(updates, value)
		}
	}

	if len(updates) != 2 {
		t.Fatalf("Expected 2 emitted updates, got %d: %v", len(updates), updates)
	}
	if updates[0] != 15.0 || updates[1] != 42.0 {
		t.Errorf("Expected [15 42], got %v", updates)
	}
}

func TestProgressTrackerMonotonic(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Update(0) // consume the primed discard

	var displayed []float64
	for _, p := range []float64{10, 5, 20} {
		value, ok := tracker.Update(p)
		if !ok {
			t.Fatalf("Update(%v) unexpectedly swallowed", p)
		}
		displayed = append(displayed, value)
	}

	expected := []float64{10, 10, 20}
	for i := range expected {
		if displayed[i] != expected[i] {
			t.Errorf("Displayed %v, expected %v", displayed, expected)
			break
		}
	}
	if tracker.Current() != 20 {
		t.Errorf("Current() = %v, expected 20", tracker.Current())
	}
}

func TestProgressTrackerReset(t *testing.T) {
	tracker := NewProgressTracker()
	tracker.Update(0)
	tracker.Update(80)

	tracker.Reset()
	if tracker.Current() != 0 {
		t.Errorf("Current() after Reset = %v, expected 0", tracker.Current())
	}
	if _, ok := tracker.Update(5); ok {
		t.Error("First sample after Reset should be discarded")
	}
}
