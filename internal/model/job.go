package model

import (
	"strings"
	"time"
)

// DownloadJob represents a single in-flight download operation. It is
// mutated by the progress parser while the subprocess runs and discarded
// once a HistoryEntry has been produced (or the job failed).
type DownloadJob struct {
	ID         string
	URL        string
	FormatID   string  // chosen format token, possibly composite "a+b"
	OutputPath string  // collision-avoided template path
	FinalPath  string  // discovered destination, merge line wins
	Status     JobStatus
	Progress   float64 // 0 to 100, monotonic non-decreasing within the job
	Cancelled  bool
	LastError  string
	Title      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// ConversionJob represents a single ffmpeg operation: either a local file
// conversion or the post-download re-encode.
type ConversionJob struct {
	ID              string
	InputPath       string
	OutputPath      string
	Status          JobStatus
	Progress        float64 // 0 to 100
	EstimatedSizeMB float64 // from size= lines, conversion flow only
	Cancelled       bool
	LastError       string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dj *DownloadJob) GetDisplayTitle() string {
	if dj.Title != "" && !strings.HasPrefix(dj.Title, "http") {
		return dj.Title
	}

	path := dj.FinalPath
	if path == "" {
		path = dj.OutputPath
	}
	if path != "" {
		parts := strings.FieldsFunc(path, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dj.URL
}
