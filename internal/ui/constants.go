package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Window sizing
const (
	WindowWidth  float32 = 840
	WindowHeight float32 = 705

	ThumbnailWidth  float32 = 200
	ThumbnailHeight float32 = 112
)

// Text fragments
const (
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%.0f%%"

	// FormatOptionFormat renders one entry of the quality picker:
	// "1920x1080, 30fps, 2628 kbps, MP4, ~68.3 MB".
	FormatOptionFormat = "%dx%d, %dfps, %d kbps, MP4, ~%.1f MB"

	// AudioOptionFormat renders one entry of the audio picker.
	AudioOptionFormat = "%d kbps, %s"

	// EstimatedSizeFormat renders a size-so-far readout in megabytes.
	EstimatedSizeFormat = "~%.1f MB"
)

// Progress animation tuning. The displayed bar glides toward the real
// percentage instead of jumping: every tick it covers a fixed fraction of
// the remaining gap and snaps when the gap gets small.
const (
	AnimationTickInterval = 50 * time.Millisecond
	AnimationStepFraction = 0.2
	AnimationSnapEpsilon  = 0.5
)
