package platform

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vidl-app/vidl/internal/model"
)

// Format table parsing patterns. Each non-empty line of `yt-dlp -F` output
// starts with a format token followed by free-form descriptive text.
var (
	formatLineRegex = regexp.MustCompile(`^(\S+)\s+(.*)$`)
	resolutionRegex = regexp.MustCompile(`(\d+)x(\d+)`)
	bitrateRegex    = regexp.MustCompile(`(\d+)k`)
	fpsColumnRegex  = regexp.MustCompile(`(\d+)x(\d+)\s+(\d+)\s`)
)

// catalogPolicy groups the filtering heuristics tuned against the current
// yt-dlp table format. They are not a documented contract of the tool.
type catalogPolicy struct {
	videoContainers    []string // containers retained for video records
	preferredAudioExts []string // containers preferred for the best-audio pick
	skipMarkers        []string // non-playable auxiliary stream markers
	defaultFPS         int
	highFPS            int
}

var defaultCatalogPolicy = catalogPolicy{
	videoContainers:    []string{"mp4"},
	preferredAudioExts: []string{"mp4", "m4a"},
	skipMarkers:        []string{"storyboard", "mhtml"},
	defaultFPS:         30,
	highFPS:            60,
}

// bucketKey deduplicates equivalent-quality candidates.
type bucketKey struct {
	width     int
	height    int
	frameRate int
}

// candidate is one raw table line competing for a bucket.
type candidate struct {
	formatID    string
	bitrateKbps int
}

// ParseFormatCatalog turns the raw `-F` listing into a structured catalog:
// one video option per (width,height,fps) bucket, taking the better of the
// best muxed stream and the best video-only stream paired with the best
// audio, plus every raw audio-only option in insertion order.
func ParseFormatCatalog(output string) *model.FormatCatalog {
	return parseFormatCatalog(output, defaultCatalogPolicy)
}

func parseFormatCatalog(output string, policy catalogPolicy) *model.FormatCatalog {
	catalog := &model.FormatCatalog{}

	bestAudioAny := candidate{bitrateKbps: -1}
	bestAudioPreferred := candidate{bitrateKbps: -1}
	muxed := make(map[bucketKey]candidate)
	videoOnly := make(map[bucketKey]candidate)

	for _, line := range strings.Split(output, "\n") {
		m := formatLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		formatID := strings.TrimSpace(m[1])
		rest := strings.TrimSpace(m[2])

		// Header rows repeat the column names.
		lowerID := strings.ToLower(formatID)
		if lowerID == "id" || lowerID == "format" {
			continue
		}

		lowerRest := strings.ToLower(rest)
		if containsAny(lowerRest, policy.skipMarkers) {
			continue
		}

		tokens := strings.Fields(rest)
		if len(tokens) < 2 {
			continue
		}
		ext := tokens[0]
		bitrateKbps := maxBitrateKbps(rest)

		if strings.Contains(lowerRest, "audio only") {
			catalog.AudioOptions = append(catalog.AudioOptions, model.AudioOption{
				FormatID:     formatID,
				Description:  formatID + " | " + rest,
				ContainerExt: ext,
				BitrateKbps:  bitrateKbps,
			})
			if containsString(policy.preferredAudioExts, ext) && bitrateKbps > bestAudioPreferred.bitrateKbps {
				bestAudioPreferred = candidate{formatID: formatID, bitrateKbps: bitrateKbps}
			}
			if bitrateKbps > bestAudioAny.bitrateKbps {
				bestAudioAny = candidate{formatID: formatID, bitrateKbps: bitrateKbps}
			}
			continue
		}

		res := resolutionRegex.FindStringSubmatch(rest)
		if res == nil {
			// Not audio-only and no WxH token: unclassifiable.
			continue
		}
		width, _ := strconv.Atoi(res[1])
		height, _ := strconv.Atoi(res[2])
		fps := parseFrameRate(line, lowerRest, policy)

		if !containsString(policy.videoContainers, ext) {
			continue
		}

		key := bucketKey{width: width, height: height, frameRate: fps}
		if strings.Contains(lowerRest, "video only") {
			if cur, ok := videoOnly[key]; !ok || bitrateKbps > cur.bitrateKbps {
				videoOnly[key] = candidate{formatID: formatID, bitrateKbps: bitrateKbps}
			}
		} else {
			if cur, ok := muxed[key]; !ok || bitrateKbps > cur.bitrateKbps {
				muxed[key] = candidate{formatID: formatID, bitrateKbps: bitrateKbps}
			}
		}
	}

	bestAudio := bestAudioPreferred
	if bestAudio.formatID == "" {
		bestAudio = bestAudioAny
	}

	catalog.VideoOptions = selectVideoOptions(muxed, videoOnly, bestAudio)
	return catalog
}

// parseFrameRate extracts the fps column from a "WxH FPS " sequence, or
// falls back to the substring heuristic (60 on " 60 "/"60fps", else 30).
func parseFrameRate(line, lowerRest string, policy catalogPolicy) int {
	if m := fpsColumnRegex.FindStringSubmatch(line); m != nil {
		if fps, err := strconv.Atoi(m[3]); err == nil {
			return fps
		}
		return 0
	}
	if strings.Contains(lowerRest, " 60 ") || strings.Contains(lowerRest, "60fps") {
		return policy.highFPS
	}
	return policy.defaultFPS
}

// maxBitrateKbps returns the largest "<int>k" token on the line, 0 if none.
func maxBitrateKbps(rest string) int {
	best := 0
	for _, m := range bitrateRegex.FindAllStringSubmatch(rest, -1) {
		if v, err := strconv.Atoi(m[1]); err == nil && v > best {
			best = v
		}
	}
	return best
}

// selectVideoOptions picks, per bucket, the muxed stream unless the best
// video-only stream plus the best audio strictly beats it on summed
// bitrate, and sorts the result by ascending (min(width,height), fps).
func selectVideoOptions(muxed, videoOnly map[bucketKey]candidate, bestAudio candidate) []model.StreamRecord {
	keys := make(map[bucketKey]struct{})
	for k := range muxed {
		keys[k] = struct{}{}
	}
	for k := range videoOnly {
		keys[k] = struct{}{}
	}

	sorted := make([]bucketKey, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ea, eb := min(a.width, a.height), min(b.width, b.height)
		if ea != eb {
			return ea < eb
		}
		return a.frameRate < b.frameRate
	})

	options := make([]model.StreamRecord, 0, len(sorted))
	for _, key := range sorted {
		mux := muxed[key]
		vid := videoOnly[key]

		comboKbps := 0
		comboID := ""
		if vid.formatID != "" && bestAudio.formatID != "" {
			comboKbps = vid.bitrateKbps + bestAudio.bitrateKbps
			comboID = vid.formatID + "+" + bestAudio.formatID
		}

		chosenID := mux.formatID
		chosenKbps := mux.bitrateKbps
		kind := model.StreamMuxed
		if comboKbps > mux.bitrateKbps {
			chosenID = comboID
			chosenKbps = comboKbps
			kind = model.StreamVideoOnly
		}
		if chosenID == "" {
			continue
		}

		options = append(options, model.StreamRecord{
			FormatID:     chosenID,
			ContainerExt: "mp4",
			Width:        key.width,
			Height:       key.height,
			FrameRate:    key.frameRate,
			BitrateKbps:  chosenKbps,
			Kind:         kind,
		})
	}
	return options
}

// DefaultVideoSelection returns the index of the preferred entry: the last
// 1080-height bucket if any, otherwise the first 720 one, otherwise the
// final (highest quality) entry. The scan deliberately does not stop at
// 720 so that a later 1080 match overrides it.
func DefaultVideoSelection(options []model.StreamRecord) int {
	if len(options) == 0 {
		return -1
	}
	idx := len(options) - 1
	found := false
	for i, o := range options {
		effective := min(o.Width, o.Height)
		if effective == 1080 {
			idx = i
			found = true
		} else if effective == 720 && !found {
			idx = i
			found = true
		}
	}
	return idx
}

// AudioExportOptions lists the audio-only records eligible for the
// audio-export picker: those in a preferred container, or, when none
// qualify, the single best record overall.
func AudioExportOptions(audio []model.AudioOption) []model.AudioOption {
	var preferred []model.AudioOption
	for _, a := range audio {
		if containsString(defaultCatalogPolicy.preferredAudioExts, a.ContainerExt) {
			preferred = append(preferred, a)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}

	best := -1
	for i, a := range audio {
		if best < 0 || a.BitrateKbps > audio[best].BitrateKbps {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return []model.AudioOption{audio[best]}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
