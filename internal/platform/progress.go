package platform

import (
	"regexp"
	"strconv"
	"strings"
)

// Recognized line shapes in the merged stdout/stderr of a running
// download or transcode subprocess.
var (
	downloadPercentRegex = regexp.MustCompile(`^\[download\][^0-9]*([0-9]+(?:\.[0-9]+)?)%`)
	destinationRegex     = regexp.MustCompile(`^\[download\]\s+Destination:\s+(.+)$`)
	mergerRegex          = regexp.MustCompile(`^\[Merger\]\s+Merging formats into\s+"(.+)"$`)
	timecodeRegex        = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)
	sizeRegex            = regexp.MustCompile(`(?i)size=\s*([0-9]+(?:\.[0-9]+)?)\s*([kmg])`)
)

// ProgressEventKind identifies what a subprocess output line carried.
type ProgressEventKind int

const (
	// EventPercent is a "[download] N%" progress line
	EventPercent ProgressEventKind = iota

	// EventDestination is a "[download] Destination: path" line
	EventDestination

	// EventMerged is a '[Merger] Merging formats into "path"' line; the
	// merged path always wins over an earlier destination
	EventMerged

	// EventTimecode is a "time=HH:MM:SS.cc" transcode progress line
	EventTimecode

	// EventSize is a "size=<float><unit>" transcode output-size line
	EventSize
)

// ProgressEvent is one parsed subprocess output line.
type ProgressEvent struct {
	Kind    ProgressEventKind
	Percent float64 // EventPercent
	Path    string  // EventDestination, EventMerged
	Seconds float64 // EventTimecode, elapsed media time
	SizeMB  float64 // EventSize, normalized to megabytes
}

// ParseProgressLine classifies a single output line. The second return is
// false for lines that carry no recognized token.
func ParseProgressLine(line string) (ProgressEvent, bool) {
	line = strings.TrimSpace(line)

	if m := downloadPercentRegex.FindStringSubmatch(line); m != nil {
		percent, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			percent = 0
		}
		return ProgressEvent{Kind: EventPercent, Percent: percent}, true
	}
	if m := destinationRegex.FindStringSubmatch(line); m != nil {
		return ProgressEvent{Kind: EventDestination, Path: strings.TrimSpace(m[1])}, true
	}
	if m := mergerRegex.FindStringSubmatch(line); m != nil {
		return ProgressEvent{Kind: EventMerged, Path: strings.TrimSpace(m[1])}, true
	}
	if m := timecodeRegex.FindStringSubmatch(line); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.ParseFloat(m[3], 64)
		elapsed := float64(hours)*3600 + float64(minutes)*60 + seconds
		return ProgressEvent{Kind: EventTimecode, Seconds: elapsed}, true
	}
	if m := sizeRegex.FindStringSubmatch(line); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		return ProgressEvent{Kind: EventSize, SizeMB: normalizeSizeMB(value, m[2])}, true
	}

	return ProgressEvent{}, false
}

// ParseOutputSizeMB extracts the size= readout from a transcode stats
// line. ffmpeg packs size= and time= into the same line, so callers that
// want both run this in addition to ParseProgressLine.
func ParseOutputSizeMB(line string) (float64, bool) {
	if m := sizeRegex.FindStringSubmatch(line); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		return normalizeSizeMB(value, m[2]), true
	}
	return 0, false
}

// normalizeSizeMB converts a size value with a k/m/g unit prefix to MB.
func normalizeSizeMB(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "k":
		return value / 1024
	case "g":
		return value * 1024
	default:
		return value
	}
}

// ProgressTracker turns raw percentage observations into a monotonic
// non-decreasing progress value. The very first percentage after a
// (re)start is discarded: yt-dlp emits a premature 0%-ish line before real
// progress begins.
type ProgressTracker struct {
	skipFirst bool
	current   float64
}

// NewProgressTracker returns a tracker primed to discard the first sample.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{skipFirst: true}
}

// Update feeds one observed percentage. It returns the value to display
// and whether an update should be emitted at all (the first observation is
// swallowed). A sample lower than the current value re-emits the current
// value, so the displayed progress never decreases.
func (t *ProgressTracker) Update(percent float64) (float64, bool) {
	if t.skipFirst {
		t.skipFirst = false
		return t.current, false
	}
	if percent > t.current {
		t.current = percent
	}
	return t.current, true
}

// Current returns the highest value observed so far.
func (t *ProgressTracker) Current() float64 {
	return t.current
}

// Reset re-arms the tracker for a fresh subprocess start.
func (t *ProgressTracker) Reset() {
	t.skipFirst = true
	t.current = 0
}
