package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/vidl-app/vidl/internal/convert"
	"github.com/vidl-app/vidl/internal/model"
	"github.com/vidl-app/vidl/internal/platform"
)

// Picker values that leave the corresponding ffmpeg parameter untouched.
const (
	OriginalValue = "original"
	DefaultValue  = "default"

	ConvertedSuffix = "_converted"
)

// Fixed picker option lists for the conversion form.
var (
	convertVideoCodecs = []string{"copy", "libx264", "libx265", "libvpx-vp9"}
	convertAudioCodecs = []string{"copy", "aac", "libmp3lame", "libopus"}
	convertContainers  = []string{"mp4", "mkv", "webm", "avi"}
	convertScales      = []string{OriginalValue, "1920:1080", "1280:720", "854:480", "640:360"}
	convertFrameRates  = []string{OriginalValue, "30", "60"}
	convertPresets     = []string{DefaultValue, "ultrafast", "fast", "medium", "slow", "veryslow"}
)

// ConvertTab is the local-file conversion form: pick a file, inspect it,
// tune codec/bitrate/resolution/frame-rate/preset and transcode.
type ConvertTab struct {
	window       fyne.Window
	convertSvc   *convert.Service
	localization *Localization

	fileEntry  *widget.Entry
	probeLabel *widget.Label

	videoCodecSelect  *widget.Select
	audioCodecSelect  *widget.Select
	containerSelect   *widget.Select
	scaleSelect       *widget.Select
	frameRateSelect   *widget.Select
	presetSelect      *widget.Select
	videoBitrateEntry *widget.Entry
	audioBitrateEntry *widget.Entry

	convertBtn  *widget.Button
	cancelBtn   *widget.Button
	progressBar *widget.ProgressBar
	statusLabel *widget.Label
	sizeLabel   *widget.Label

	content *fyne.Container

	currentJobID string
}

// NewConvertTab creates the conversion tab.
func NewConvertTab(window fyne.Window, convertSvc *convert.Service, localization *Localization) *ConvertTab {
	tab := &ConvertTab{
		window:       window,
		convertSvc:   convertSvc,
		localization: localization,
	}

	tab.setupUI()
	return tab
}

// Container returns the tab's root canvas object.
func (t *ConvertTab) Container() fyne.CanvasObject {
	return t.content
}

func (t *ConvertTab) setupUI() {
	loc := t.localization

	t.fileEntry = widget.NewEntry()
	t.fileEntry.SetPlaceHolder(loc.GetText(KeyInputFile))
	t.fileEntry.OnSubmitted = func(string) { t.probeInput() }
	browseBtn := widget.NewButton(loc.GetText(KeyBrowse), t.onBrowseFile)
	fileRow := container.NewBorder(nil, nil, nil, browseBtn, t.fileEntry)

	t.probeLabel = widget.NewLabel(DashPlaceholder)
	t.probeLabel.Wrapping = fyne.TextWrapWord

	t.videoCodecSelect = widget.NewSelect(convertVideoCodecs, nil)
	t.videoCodecSelect.SetSelectedIndex(0)
	t.audioCodecSelect = widget.NewSelect(convertAudioCodecs, nil)
	t.audioCodecSelect.SetSelectedIndex(0)
	t.containerSelect = widget.NewSelect(convertContainers, nil)
	t.containerSelect.SetSelectedIndex(0)
	t.scaleSelect = widget.NewSelect(convertScales, nil)
	t.scaleSelect.SetSelectedIndex(0)
	t.frameRateSelect = widget.NewSelect(convertFrameRates, nil)
	t.frameRateSelect.SetSelectedIndex(0)
	t.presetSelect = widget.NewSelect(convertPresets, nil)
	t.presetSelect.SetSelectedIndex(0)

	t.videoBitrateEntry = widget.NewEntry()
	t.videoBitrateEntry.SetPlaceHolder("2000k")
	t.audioBitrateEntry = widget.NewEntry()
	t.audioBitrateEntry.SetPlaceHolder("128k")

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel(loc.GetText(KeyVideoCodec)), t.videoCodecSelect,
		widget.NewLabel(loc.GetText(KeyAudioCodec)), t.audioCodecSelect,
		widget.NewLabel(loc.GetText(KeyContainer)), t.containerSelect,
		widget.NewLabel(loc.GetText(KeyResolution)), t.scaleSelect,
		widget.NewLabel(loc.GetText(KeyFrameRate)), t.frameRateSelect,
		widget.NewLabel(loc.GetText(KeyPreset)), t.presetSelect,
		widget.NewLabel(loc.GetText(KeyVideoBitrate)), t.videoBitrateEntry,
		widget.NewLabel(loc.GetText(KeyAudioBitrate)), t.audioBitrateEntry,
	)

	t.convertBtn = widget.NewButton(loc.GetText(KeyConvert), t.onConvertClick)
	t.convertBtn.Importance = widget.HighImportance
	t.convertBtn.Disable()
	t.cancelBtn = widget.NewButton(loc.GetText(KeyCancel), t.onCancelClick)
	t.cancelBtn.Hide()

	t.progressBar = widget.NewProgressBar()
	t.statusLabel = widget.NewLabel("")
	t.sizeLabel = widget.NewLabel("")

	t.content = container.NewVBox(
		fileRow,
		t.probeLabel,
		widget.NewSeparator(),
		form,
		container.NewHBox(t.convertBtn, t.cancelBtn),
		t.progressBar,
		container.NewHBox(t.statusLabel, t.sizeLabel),
	)
}

func (t *ConvertTab) onBrowseFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		t.fileEntry.SetText(path)
		t.probeInput()
	}, t.window)
}

// probeInput inspects the chosen file in the background and shows its
// stream facts once known. Conversion is only offered for probeable files.
func (t *ConvertTab) probeInput() {
	path := strings.TrimSpace(t.fileEntry.Text)
	if path == "" {
		return
	}

	t.convertBtn.Disable()
	t.statusLabel.SetText(t.localization.GetText(KeyProbing))
	t.probeLabel.SetText(DashPlaceholder)

	go func() {
		info, err := convert.Probe(path)
		fyne.Do(func() {
			if err != nil {
				t.statusLabel.SetText(t.localization.GetText(KeyProbeFailed))
				return
			}
			t.probeLabel.SetText(formatProbeSummary(t.localization, info))
			t.statusLabel.SetText("")
			t.convertBtn.Enable()
		})
	}()
}

func (t *ConvertTab) onConvertClick() {
	inputPath := strings.TrimSpace(t.fileEntry.Text)
	if inputPath == "" {
		return
	}

	opts := conversionOptions(
		t.videoCodecSelect.Selected,
		t.audioCodecSelect.Selected,
		t.videoBitrateEntry.Text,
		t.audioBitrateEntry.Text,
		t.scaleSelect.Selected,
		t.frameRateSelect.Selected,
		t.presetSelect.Selected,
	)
	outputPath := conversionOutputPath(inputPath, t.containerSelect.Selected)

	job, err := t.convertSvc.StartConversion(inputPath, outputPath, opts)
	if err != nil {
		dialog.ShowError(err, t.window)
		return
	}

	t.currentJobID = job.ID
	t.progressBar.SetValue(0)
	t.sizeLabel.SetText("")
	t.convertBtn.Disable()
	t.cancelBtn.Show()
	t.statusLabel.SetText(t.localization.GetText(KeyConvertStarted))
}

func (t *ConvertTab) onCancelClick() {
	if t.currentJobID == "" {
		return
	}
	if err := t.convertSvc.StopJob(t.currentJobID); err != nil {
		dialog.ShowError(err, t.window)
	}
}

// HandleUpdate arrives on the conversion worker goroutine.
func (t *ConvertTab) HandleUpdate(job *model.ConversionJob) {
	if job.ID != t.currentJobID {
		return
	}

	progress := job.Progress
	status := job.Status
	lastError := job.LastError
	sizeMB := job.EstimatedSizeMB

	fyne.Do(func() {
		t.progressBar.SetValue(progress / 100)
		if sizeMB > 0 {
			t.sizeLabel.SetText(fmt.Sprintf("%s: "+EstimatedSizeFormat,
				t.localization.GetText(KeyOutputSize), sizeMB))
		}

		switch status {
		case model.StatusCompleted:
			t.progressBar.SetValue(1)
			t.convertBtn.Enable()
			t.cancelBtn.Hide()
			t.statusLabel.SetText(t.localization.GetText(KeyConvertDone))
		case model.StatusError:
			t.convertBtn.Enable()
			t.cancelBtn.Hide()
			message := t.localization.GetText(KeyConvertFailed)
			if lastError != "" {
				message = fmt.Sprintf("%s: %s", message, lastError)
			}
			t.statusLabel.SetText(message)
		case model.StatusStopped:
			t.convertBtn.Enable()
			t.cancelBtn.Hide()
			t.statusLabel.SetText(t.localization.GetText(KeyConvertStopped))
		}
	})
}

// conversionOptions maps the form's raw picker values onto ffmpeg options.
// The "original"/"default" sentinels and empty bitrates leave the matching
// parameter untouched.
func conversionOptions(videoCodec, audioCodec, videoBitrate, audioBitrate, scale, frameRate, preset string) convert.Options {
	opts := convert.Options{
		VideoCodec:   videoCodec,
		AudioCodec:   audioCodec,
		VideoBitrate: strings.TrimSpace(videoBitrate),
		AudioBitrate: strings.TrimSpace(audioBitrate),
	}
	if scale != "" && scale != OriginalValue {
		opts.Scale = scale
	}
	if frameRate != "" && frameRate != OriginalValue {
		if fps, err := strconv.Atoi(frameRate); err == nil {
			opts.FrameRate = fps
		}
	}
	if preset != "" && preset != DefaultValue {
		opts.Preset = preset
	}
	return opts
}

// conversionOutputPath derives a collision-free "<name>_converted.<ext>"
// target next to the input.
func conversionOutputPath(inputPath, containerExt string) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext) + ConvertedSuffix
	return platform.UniquePath(dir, base, containerExt)
}

// formatProbeSummary renders the probe facts for the metadata area.
func formatProbeSummary(loc *Localization, info *model.MediaProbeInfo) string {
	header := []string{}
	if info.FormatName != "" {
		header = append(header, info.FormatName)
	}
	if info.Duration > 0 {
		header = append(header, fmt.Sprintf("%s: %s", loc.GetText(KeyDuration), formatProbeDuration(info.Duration)))
	}
	if info.BitrateKbps > 0 {
		header = append(header, fmt.Sprintf("%d kbps", info.BitrateKbps))
	}

	lines := []string{strings.Join(header, ", ")}
	if v := info.Video; v != nil {
		lines = append(lines, fmt.Sprintf("%s: %s, %dx%d, %d kbps",
			loc.GetText(KeyVideoCodec), v.CodecName, v.Width, v.Height, v.BitrateKbps))
	}
	if a := info.Audio; a != nil {
		lines = append(lines, fmt.Sprintf("%s: %s, %d Hz, %d kbps",
			loc.GetText(KeyAudioCodec), a.CodecName, a.SampleRate, a.BitrateKbps))
	}
	return strings.Join(lines, "\n")
}

func formatProbeDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
