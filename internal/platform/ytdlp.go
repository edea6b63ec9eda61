package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/vidl-app/vidl/internal/model"
)

// yt-dlp CLI contract
const (
	YTDLPCommand = "yt-dlp"

	FlagListFormats  = "-F"
	FlagDumpJSON     = "-j"
	FlagThumbnail    = "--get-thumbnail"
	FlagFormat       = "-f"
	FlagMergeFormat  = "--merge-output-format"
	FlagNewline      = "--newline"
	FlagOutput       = "-o"
	FlagExtractAudio = "--extract-audio"
	FlagAudioFormat  = "--audio-format"
)

// Network fetch limits
const (
	ThumbnailFetchTimeout = 5 * time.Second
)

// BuildVideoDownloadArgs builds the argv for a video download merged into
// an mp4 container. The format id may be composite ("<video>+<audio>").
func BuildVideoDownloadArgs(formatID, outputPath, url string) []string {
	return []string{
		YTDLPCommand,
		FlagFormat, formatID,
		FlagMergeFormat, "mp4",
		FlagNewline,
		FlagOutput, outputPath,
		url,
	}
}

// BuildAudioDownloadArgs builds the argv for an audio-only export
// converted to mp3.
func BuildAudioDownloadArgs(formatID, outputPath, url string) []string {
	return []string{
		YTDLPCommand,
		FlagFormat, formatID,
		FlagExtractAudio,
		FlagAudioFormat, "mp3",
		FlagNewline,
		FlagOutput, outputPath,
		url,
	}
}

// ListFormats runs the format listing and returns its raw stdout for the
// catalog parser. The age-gate retry applies.
func ListFormats(ctx context.Context, url, cookieBrowser string) (string, error) {
	return runCaptured(ctx, []string{YTDLPCommand, FlagListFormats, url}, cookieBrowser)
}

// FetchThumbnailURL returns the direct thumbnail URL for the video, or an
// error when none could be obtained.
func FetchThumbnailURL(ctx context.Context, url, cookieBrowser string) (string, error) {
	out, err := runCaptured(ctx, []string{YTDLPCommand, FlagThumbnail, url}, cookieBrowser)
	if err != nil {
		return "", err
	}
	thumb := strings.TrimSpace(out)
	if thumb == "" {
		return "", fmt.Errorf("no thumbnail URL in output")
	}
	return thumb, nil
}

// videoInfoJSON mirrors the fields of interest in `yt-dlp -j` output.
type videoInfoJSON struct {
	Title        string  `json:"title"`
	Uploader     string  `json:"uploader"`
	UploadDate   string  `json:"upload_date"`
	ViewCount    int64   `json:"view_count"`
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
	Duration     float64 `json:"duration"`
}

// FetchVideoMetadata fetches and normalizes the JSON metadata document.
func FetchVideoMetadata(ctx context.Context, url, cookieBrowser string) (*model.VideoMetadata, error) {
	out, err := runCaptured(ctx, []string{YTDLPCommand, FlagDumpJSON, url}, cookieBrowser)
	if err != nil {
		return nil, err
	}

	var info videoInfoJSON
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return nil, fmt.Errorf("failed to decode video metadata: %w", err)
	}

	return &model.VideoMetadata{
		Title:        info.Title,
		Uploader:     info.Uploader,
		UploadDate:   ReformatUploadDate(info.UploadDate),
		ViewCount:    info.ViewCount,
		LikeCount:    info.LikeCount,
		CommentCount: info.CommentCount,
		Duration:     info.Duration,
	}, nil
}

// ReformatUploadDate rewrites YYYYMMDD to YYYY-MM-DD; anything else is
// passed through untouched.
func ReformatUploadDate(date string) string {
	if len(date) != 8 {
		return date
	}
	return date[:4] + "-" + date[4:6] + "-" + date[6:]
}

// FetchThumbnailImage downloads the thumbnail bytes with a short timeout.
// Failures are non-fatal for analysis; the caller keeps its placeholder.
func FetchThumbnailImage(url string) ([]byte, error) {
	client := &http.Client{Timeout: ThumbnailFetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// runCaptured executes a one-shot invocation and returns its stdout. When
// the run fails with the age-gate signature anywhere in its combined
// output, the command is re-issued exactly once with browser cookies.
func runCaptured(ctx context.Context, args []string, cookieBrowser string) (string, error) {
	stdout, combined, err := captureOnce(ctx, args)
	if err == nil {
		return stdout, nil
	}
	if cookieBrowser == "" || !ContainsAgeGateMarker(combined) {
		return "", err
	}
	retryArgs := WithBrowserCookies(args, cookieBrowser)
	if len(retryArgs) == len(args) {
		return "", err
	}
	fireAgeGateNotice()
	stdout, _, err = captureOnce(ctx, retryArgs)
	if err != nil {
		return "", err
	}
	return stdout, nil
}

func captureOnce(ctx context.Context, args []string) (stdout, combined string, err error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	stdout = outBuf.String()
	combined = stdout + errBuf.String()
	return stdout, combined, err
}
