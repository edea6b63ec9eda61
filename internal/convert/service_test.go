package convert

import (
	"bufio"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vidl-app/vidl/internal/model"
)

func TestBuildReencodeArgs(t *testing.T) {
	got := BuildReencodeArgs("/tmp/in.mp4", "/tmp/in_reencoded.mp4")
	expected := []string{
		"-y",
		"-i", "/tmp/in.mp4",
		"-c:v", "libx264",
		"-preset", "slow",
		"-crf", "18",
		"-c:a", "copy",
		"-movflags", "faststart",
		"/tmp/in_reencoded.mp4",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("BuildReencodeArgs() = %v, expected %v", got, expected)
	}
}

func TestBuildConversionArgs(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{
			name:     "defaults",
			opts:     Options{},
			expected: []string{"-y", "-i", "in.mkv", "out.mp4"},
		},
		{
			name: "full tuning",
			opts: Options{
				VideoCodec:   "libx264",
				AudioCodec:   "aac",
				VideoBitrate: "2000k",
				AudioBitrate: "128k",
				Scale:        "1280:720",
				FrameRate:    30,
				Preset:       "medium",
				CRF:          "23",
			},
			expected: []string{
				"-y", "-i", "in.mkv",
				"-c:v", "libx264",
				"-preset", "medium",
				"-crf", "23",
				"-b:v", "2000k",
				"-vf", "scale=1280:720",
				"-r", "30",
				"-c:a", "aac",
				"-b:a", "128k",
				"out.mp4",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := BuildConversionArgs("in.mkv", "out.mp4", test.opts)
			if !reflect.DeepEqual(got, test.expected) {
				t.Errorf("BuildConversionArgs() = %v, expected %v", got, test.expected)
			}
		})
	}
}

func TestReencodeOutputPath(t *testing.T) {
	got := reencodeOutputPath(filepath.Join("/tmp", "My Video.mp4"))
	expected := filepath.Join("/tmp", "My Video_reencoded.mp4")
	if got != expected {
		t.Errorf("reencodeOutputPath() = %q, expected %q", got, expected)
	}

	// Non-mp4 inputs still land in an mp4 container.
	got = reencodeOutputPath("/tmp/clip.webm")
	if got != "/tmp/clip_reencoded.mp4" {
		t.Errorf("reencodeOutputPath() = %q", got)
	}
}

func TestParseProbeOutput(t *testing.T) {
	doc := `{
		"streams": [
			{
				"codec_type": "video",
				"codec_name": "h264",
				"width": 1920,
				"height": 1080,
				"bit_rate": "2500000"
			},
			{
				"codec_type": "audio",
				"codec_name": "aac",
				"bit_rate": "128000",
				"sample_rate": "44100",
				"channels": 2
			}
		],
		"format": {
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"duration": "212.5",
			"bit_rate": "2628000"
		}
	}`

	info, err := parseProbeOutput([]byte(doc))
	if err != nil {
		t.Fatalf("parseProbeOutput() error: %v", err)
	}

	if info.Duration != 212.5 {
		t.Errorf("Duration = %v, expected 212.5", info.Duration)
	}
	if info.BitrateKbps != 2628 {
		t.Errorf("BitrateKbps = %d, expected 2628", info.BitrateKbps)
	}
	if info.Video == nil || info.Video.CodecName != "h264" || info.Video.Width != 1920 {
		t.Errorf("Video stream = %+v", info.Video)
	}
	if info.Audio == nil || info.Audio.SampleRate != 44100 || info.Audio.Channels != 2 {
		t.Errorf("Audio stream = %+v", info.Audio)
	}
}

func TestParseProbeOutputAudioOnly(t *testing.T) {
	doc := `{
		"streams": [
			{"codec_type": "audio", "codec_name": "mp3", "bit_rate": "192000", "sample_rate": "48000", "channels": 2}
		],
		"format": {"format_name": "mp3", "duration": "60.0", "bit_rate": "192000"}
	}`

	info, err := parseProbeOutput([]byte(doc))
	if err != nil {
		t.Fatalf("parseProbeOutput() error: %v", err)
	}
	if info.Video != nil {
		t.Errorf("Expected no video stream, got %+v", info.Video)
	}
	if info.Audio == nil || info.Audio.BitrateKbps != 192 {
		t.Errorf("Audio stream = %+v", info.Audio)
	}
}

func TestScanCRLines(t *testing.T) {
	input := "frame=1 time=00:00:01.00\rframe=2 time=00:00:02.00\nlast"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(scanCRLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	expected := []string{"frame=1 time=00:00:01.00", "frame=2 time=00:00:02.00", "last"}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("scanCRLines produced %v, expected %v", lines, expected)
	}
}

func TestMonitorProgressReadsTimeAndSize(t *testing.T) {
	service := NewService()
	job := &model.ConversionJob{ID: "convert-m", Status: model.StatusRunning}
	service.jobs[job.ID] = job

	// ffmpeg rewrites one stats line carrying both size= and time=.
	stderr := "frame=  30 fps=30 q=28.0 size=    1024kB time=00:00:25.00 bitrate=2000.0kbits/s\r" +
		"frame=  60 fps=30 q=28.0 size=    2048kB time=00:00:50.00 bitrate=2000.0kbits/s\r"

	service.monitorProgress(io.NopCloser(strings.NewReader(stderr)), job, 100)

	if job.Progress != 50 {
		t.Errorf("Progress = %v, expected 50", job.Progress)
	}
	if job.EstimatedSizeMB != 2 {
		t.Errorf("EstimatedSizeMB = %v, expected 2", job.EstimatedSizeMB)
	}
}

func TestStartConversionMissingInput(t *testing.T) {
	service := NewService()

	_, err := service.StartConversion("/nonexistent/input.mp4", "/tmp/out.mp4", Options{})
	if err == nil {
		t.Error("Expected an error for a missing input file")
	}
}

func TestStopJobErrors(t *testing.T) {
	service := NewService()

	if err := service.StopJob("missing"); err == nil {
		t.Error("Expected an error for an unknown job")
	}

	job := &model.ConversionJob{ID: "convert-x", Status: model.StatusCompleted}
	service.jobs[job.ID] = job
	if err := service.StopJob(job.ID); err == nil {
		t.Error("Expected an error for a finished job")
	}
}

func TestGenerateJobID(t *testing.T) {
	a := generateJobID()
	b := generateJobID()

	if !strings.HasPrefix(a, JobIDPrefix) {
		t.Errorf("ID %q lacks prefix %q", a, JobIDPrefix)
	}
	if a == b {
		t.Errorf("Expected unique IDs, got %q twice", a)
	}
}
