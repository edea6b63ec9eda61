package model

import "fmt"

// StreamKind classifies a stream candidate. Exactly one kind applies to a
// given StreamRecord.
type StreamKind int

const (
	// StreamMuxed is a single stream with audio and video already combined
	StreamMuxed StreamKind = iota

	// StreamVideoOnly carries video without audio
	StreamVideoOnly

	// StreamAudioOnly carries audio without video
	StreamAudioOnly
)

// StreamRecord is one selectable representation of the source media, either
// a single stream or a "<video>+<audio>" combination. Records are rebuilt
// from scratch on every analysis and never persisted.
type StreamRecord struct {
	FormatID     string // opaque token, possibly composite "a+b"
	ContainerExt string // lowercase extension token, e.g. "mp4", "m4a"
	Width        int    // pixels, video only
	Height       int    // pixels, video only
	FrameRate    int    // frames/sec, video only
	BitrateKbps  int    // best bitrate found for the record, 0 if unknown
	Kind         StreamKind
}

// AudioOption is a raw audio-only line from the format table, kept in
// insertion order for the audio-export picker.
type AudioOption struct {
	FormatID     string
	Description  string // format id plus the raw descriptive text
	ContainerExt string
	BitrateKbps  int
}

// FormatCatalog is the structured result of one analysis: one video entry
// per distinct (width,height,fps) bucket and all raw audio-only options.
type FormatCatalog struct {
	VideoOptions []StreamRecord
	AudioOptions []AudioOption
}

// IsEmpty reports whether the catalog carries no usable stream at all.
func (c *FormatCatalog) IsEmpty() bool {
	return len(c.VideoOptions) == 0 && len(c.AudioOptions) == 0
}

// VideoMetadata holds the informational fields fetched alongside the
// catalog. Missing fields stay at their zero values; the UI shows
// placeholders for those.
type VideoMetadata struct {
	Title        string
	Uploader     string
	UploadDate   string // "YYYY-MM-DD" once normalized
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	Duration     float64 // seconds
	ThumbnailURL string
}

// DurationString formats the duration as mm:ss, or hh:mm:ss above one hour.
func (m *VideoMetadata) DurationString() string {
	total := int(m.Duration)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// EstimatedSizeMB estimates the output size in megabytes for a stream of
// the given total bitrate, or 0 when the duration is unknown.
func (m *VideoMetadata) EstimatedSizeMB(bitrateKbps int) float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(bitrateKbps) * m.Duration / 8192
}

// HistoryEntry is one persisted download record.
type HistoryEntry struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	DownloadDate string `json:"download_date"` // "YYYY-MM-DD HH:MM"
}

// ProbeStream describes one stream of a probed local file.
type ProbeStream struct {
	CodecName   string
	Width       int
	Height      int
	BitrateKbps int
	SampleRate  int
	Channels    int
}

// MediaProbeInfo is the transient result of probing a local media file on
// the conversion tab.
type MediaProbeInfo struct {
	Duration    float64 // seconds
	FormatName  string
	BitrateKbps int
	Video       *ProbeStream // nil when the file has no video stream
	Audio       *ProbeStream // nil when the file has no audio stream
}
