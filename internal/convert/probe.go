package convert

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/vidl-app/vidl/internal/model"
)

// ffprobe invocation constants
const (
	FFprobeCommand  = "ffprobe"
	FFprobeLogLevel = "error"
)

// probeJSON mirrors the `ffprobe -print_format json` document shape.
// Numeric values arrive as strings.
type probeJSON struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		BitRate    string `json:"bit_rate"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Probe inspects a local media file with ffprobe.
func Probe(path string) (*model.MediaProbeInfo, error) {
	cmd := exec.Command(FFprobeCommand,
		"-v", FFprobeLogLevel,
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (*model.MediaProbeInfo, error) {
	var doc probeJSON
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode ffprobe output: %w", err)
	}

	info := &model.MediaProbeInfo{
		FormatName:  doc.Format.FormatName,
		Duration:    parseFloatField(doc.Format.Duration),
		BitrateKbps: int(parseFloatField(doc.Format.BitRate) / 1000),
	}

	for _, s := range doc.Streams {
		stream := &model.ProbeStream{
			CodecName:   s.CodecName,
			Width:       s.Width,
			Height:      s.Height,
			BitrateKbps: int(parseFloatField(s.BitRate) / 1000),
			SampleRate:  int(parseFloatField(s.SampleRate)),
			Channels:    s.Channels,
		}
		switch s.CodecType {
		case "video":
			if info.Video == nil {
				info.Video = stream
			}
		case "audio":
			if info.Audio == nil {
				info.Audio = stream
			}
		}
	}

	return info, nil
}

func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
