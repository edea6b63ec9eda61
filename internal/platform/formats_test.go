package platform

import (
	"testing"

	"github.com/vidl-app/vidl/internal/model"
)

const sampleFormatTable = `ID  EXT   RESOLUTION FPS CH |   FILESIZE    TBR PROTO | VCODEC          VBR ACODEC      ABR ASR MORE INFO
sb2 mhtml 48x27        0    |                   mhtml | images
139 m4a   audio only      2 |    1.21MiB    49k https | audio only          mp4a.40.5   49k 22k low, m4a_dash
140 m4a   audio only      2 |    3.18MiB   128k https | audio only          mp4a.40.2  128k 44k medium, m4a_dash
251 webm  audio only      2 |    3.62MiB   146k https | audio only          opus       146k 48k medium, webm_dash
18  mp4   640x360     30  2 |   10.98MiB   500k https | avc1.42001E     500k mp4a.40.2  96k 44k 360p
22  mp4   1280x720    30  2 |   28.12MiB  2000k https | avc1.64001F   2000k mp4a.40.2  44k 720p
136 mp4   1280x720    30    |   20.00MiB  1500k https | avc1.4D401F   1500k video only          720p, mp4_dash
298 mp4   1280x720    60    |   30.00MiB  2500k https | avc1.4D4020   2500k video only          720p60, mp4_dash
137 mp4   1920x1080   30    |   50.00MiB  2500k https | avc1.640028   2500k video only          1080p, mp4_dash
248 webm  1920x1080   30    |   45.00MiB  2400k https | vp9           2400k video only          1080p, webm_dash
`

func TestParseFormatCatalog(t *testing.T) {
	catalog := ParseFormatCatalog(sampleFormatTable)

	// Three audio-only lines survive, in table order.
	if len(catalog.AudioOptions) != 3 {
		t.Fatalf("Expected 3 audio options, got %d", len(catalog.AudioOptions))
	}
	if catalog.AudioOptions[0].FormatID != "139" || catalog.AudioOptions[2].FormatID != "251" {
		t.Errorf("Audio options out of order: %+v", catalog.AudioOptions)
	}

	// Buckets: (640,360,30), (1280,720,30), (1280,720,60), (1920,1080,30).
	// The webm 1080p line must have been filtered out as a video record.
	if len(catalog.VideoOptions) != 4 {
		t.Fatalf("Expected 4 video options, got %d: %+v", len(catalog.VideoOptions), catalog.VideoOptions)
	}

	// Sort order: ascending min(width,height), then frame rate.
	expected := []struct {
		width, height, fps int
		formatID           string
		bitrateKbps        int
	}{
		// muxed 500k vs nothing
		{640, 360, 30, "18", 500},
		// muxed 2000k beats video-only 1500k + audio 128k = 1628k
		{1280, 720, 30, "22", 2000},
		// video-only 2500k + audio 128k, no muxed competitor
		{1280, 720, 60, "298+140", 2628},
		// video-only 2500k + audio 128k, no muxed competitor
		{1920, 1080, 30, "137+140", 2628},
	}

	for i, exp := range expected {
		got := catalog.VideoOptions[i]
		if got.Width != exp.width || got.Height != exp.height || got.FrameRate != exp.fps {
			t.Errorf("Option %d: bucket (%d,%d,%d), expected (%d,%d,%d)",
				i, got.Width, got.Height, got.FrameRate, exp.width, exp.height, exp.fps)
		}
		if got.FormatID != exp.formatID {
			t.Errorf("Option %d: format id %s, expected %s", i, got.FormatID, exp.formatID)
		}
		if got.BitrateKbps != exp.bitrateKbps {
			t.Errorf("Option %d: bitrate %d, expected %d", i, got.BitrateKbps, exp.bitrateKbps)
		}
	}
}

func TestParseFormatCatalogBucketsUnique(t *testing.T) {
	catalog := ParseFormatCatalog(sampleFormatTable)

	seen := make(map[[3]int]bool)
	for _, o := range catalog.VideoOptions {
		key := [3]int{o.Width, o.Height, o.FrameRate}
		if seen[key] {
			t.Errorf("Bucket %v appears more than once", key)
		}
		seen[key] = true
	}
}

func TestParseFormatCatalogMuxedWinsOnTie(t *testing.T) {
	// muxed 3000k vs video-only 2500k + best audio 128k = 2628k: the
	// muxed stream must win because the combo is not strictly greater.
	table := `ID  EXT RESOLUTION FPS CH | FILESIZE TBR PROTO | MORE INFO
sb0 mhtml 48x27      0    |            mhtml | storyboard
140 m4a  audio only     2 |  3.1MiB   128k https | audio only mp4a.40.2
22  mp4  1920x1080  30  2 | 60.0MiB  3000k https | avc1 mp4a.40.2
137 mp4  1920x1080  30    | 50.0MiB  2500k https | avc1 video only
`
	catalog := ParseFormatCatalog(table)
	if len(catalog.VideoOptions) != 1 {
		t.Fatalf("Expected 1 video option, got %d", len(catalog.VideoOptions))
	}
	if got := catalog.VideoOptions[0].FormatID; got != "22" {
		t.Errorf("Expected muxed id 22, got %s", got)
	}
	if len(catalog.AudioOptions) != 1 {
		t.Errorf("Expected 1 audio option, got %d", len(catalog.AudioOptions))
	}
	for _, a := range catalog.AudioOptions {
		if a.FormatID == "sb0" {
			t.Error("Storyboard line leaked into audio options")
		}
	}
}

func TestParseFormatCatalogComboWinsWhenStrictlyGreater(t *testing.T) {
	// muxed 2000k vs video-only 1800k + audio 400k = 2200k.
	table := `160 m4a  audio only     2 |  3.1MiB   400k https | audio only mp4a.40.2
22  mp4  1920x1080  30  2 | 60.0MiB  2000k https | avc1 mp4a.40.2
137 mp4  1920x1080  30    | 50.0MiB  1800k https | avc1 video only
`
	catalog := ParseFormatCatalog(table)
	if len(catalog.VideoOptions) != 1 {
		t.Fatalf("Expected 1 video option, got %d", len(catalog.VideoOptions))
	}
	if got := catalog.VideoOptions[0].FormatID; got != "137+160" {
		t.Errorf("Expected composite id 137+160, got %s", got)
	}
	if got := catalog.VideoOptions[0].BitrateKbps; got != 2200 {
		t.Errorf("Expected combo bitrate 2200, got %d", got)
	}
}

func TestParseFrameRateHeuristic(t *testing.T) {
	// No fps column: default 30, bumped to 60 only on explicit evidence.
	table := `22  mp4  1280x720 | 2000k https | avc1 mp4a.40.2
95  mp4  1920x1080 | 3000k https | avc1 mp4a.40.2 60fps
`
	catalog := ParseFormatCatalog(table)
	if len(catalog.VideoOptions) != 2 {
		t.Fatalf("Expected 2 video options, got %d", len(catalog.VideoOptions))
	}
	if got := catalog.VideoOptions[0].FrameRate; got != 30 {
		t.Errorf("Expected default fps 30, got %d", got)
	}
	if got := catalog.VideoOptions[1].FrameRate; got != 60 {
		t.Errorf("Expected 60fps from marker, got %d", got)
	}
}

func TestParseFormatCatalogDiscardsShortLines(t *testing.T) {
	catalog := ParseFormatCatalog("137 mp4\nID EXT\n")
	if !catalog.IsEmpty() {
		t.Errorf("Expected empty catalog, got %+v", catalog)
	}
}

func TestDefaultVideoSelection(t *testing.T) {
	rec := func(w, h, fps int) model.StreamRecord {
		return model.StreamRecord{Width: w, Height: h, FrameRate: fps}
	}

	tests := []struct {
		name     string
		options  []model.StreamRecord
		expected int
	}{
		{
			name:     "1080 preferred",
			options:  []model.StreamRecord{rec(640, 360, 30), rec(1920, 1080, 30), rec(3840, 2160, 30)},
			expected: 1,
		},
		{
			name:     "later 1080 overrides earlier 720",
			options:  []model.StreamRecord{rec(1280, 720, 30), rec(1920, 1080, 30), rec(1920, 1080, 60)},
			expected: 2,
		},
		{
			name:     "lone 720 is kept",
			options:  []model.StreamRecord{rec(640, 360, 30), rec(1280, 720, 30)},
			expected: 1,
		},
		{
			name:     "neither: last entry wins",
			options:  []model.StreamRecord{rec(426, 240, 30), rec(640, 360, 30)},
			expected: 1,
		},
		{
			name:     "empty",
			options:  nil,
			expected: -1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DefaultVideoSelection(test.options); got != test.expected {
				t.Errorf("DefaultVideoSelection() = %d, expected %d", got, test.expected)
			}
		})
	}
}

func TestAudioExportOptions(t *testing.T) {
	preferred := []model.AudioOption{
		{FormatID: "139", ContainerExt: "m4a", BitrateKbps: 49},
		{FormatID: "251", ContainerExt: "webm", BitrateKbps: 146},
		{FormatID: "140", ContainerExt: "m4a", BitrateKbps: 128},
	}
	got := AudioExportOptions(preferred)
	if len(got) != 2 || got[0].FormatID != "139" || got[1].FormatID != "140" {
		t.Errorf("Expected the two m4a options, got %+v", got)
	}

	// No mp4/m4a container at all: single best overall.
	webmOnly := []model.AudioOption{
		{FormatID: "250", ContainerExt: "webm", BitrateKbps: 70},
		{FormatID: "251", ContainerExt: "webm", BitrateKbps: 146},
	}
	got = AudioExportOptions(webmOnly)
	if len(got) != 1 || got[0].FormatID != "251" {
		t.Errorf("Expected single best fallback 251, got %+v", got)
	}

	if got := AudioExportOptions(nil); got != nil {
		t.Errorf("Expected nil for empty input, got %+v", got)
	}
}
