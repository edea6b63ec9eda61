package platform

import (
	"reflect"
	"testing"
)

func TestBuildVideoDownloadArgs(t *testing.T) {
	got := BuildVideoDownloadArgs("137+140", "/tmp/out/Title.mp4", "https://example.com/watch?v=abc")
	expected := []string{
		"yt-dlp",
		"-f", "137+140",
		"--merge-output-format", "mp4",
		"--newline",
		"-o", "/tmp/out/Title.mp4",
		"https://example.com/watch?v=abc",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("BuildVideoDownloadArgs() = %v, expected %v", got, expected)
	}
}

func TestBuildAudioDownloadArgs(t *testing.T) {
	got := BuildAudioDownloadArgs("140", "/tmp/out/Title.mp3", "https://example.com/watch?v=abc")
	expected := []string{
		"yt-dlp",
		"-f", "140",
		"--extract-audio",
		"--audio-format", "mp3",
		"--newline",
		"-o", "/tmp/out/Title.mp3",
		"https://example.com/watch?v=abc",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("BuildAudioDownloadArgs() = %v, expected %v", got, expected)
	}
}

func TestReformatUploadDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "compact form",
			input:    "20240131",
			expected: "2024-01-31",
		},
		{
			name:     "already formatted",
			input:    "2024-01-31",
			expected: "2024-01-31",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "unexpected length",
			input:    "202401",
			expected: "202401",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ReformatUploadDate(test.input); got != test.expected {
				t.Errorf("ReformatUploadDate(%q) = %q, expected %q", test.input, got, test.expected)
			}
		})
	}
}
