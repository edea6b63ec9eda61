package ui

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vidl-app/vidl/internal/config"
	"github.com/vidl-app/vidl/internal/convert"
	"github.com/vidl-app/vidl/internal/download"
	"github.com/vidl-app/vidl/internal/history"
	"github.com/vidl-app/vidl/internal/model"
	"github.com/vidl-app/vidl/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	window fyne.Window
	app    fyne.App

	settings     *config.Settings
	localization *Localization

	downloadSvc  *download.Service
	convertSvc   *convert.Service
	historyStore *history.Store

	// Download tab widgets
	urlEntry     *widget.Entry
	analyzeBtn   *widget.Button
	thumbnail    *canvas.Image
	titleLabel   *widget.Label
	metaLabel    *widget.Label
	exportRadio  *widget.RadioGroup
	formatSelect *widget.Select
	folderEntry  *widget.Entry
	downloadBtn  *widget.Button
	cancelBtn    *widget.Button
	reencodeBtn  *widget.Button
	progressBar  *widget.ProgressBar
	statusLabel  *widget.Label

	historyTab *HistoryTab
	convertTab *ConvertTab
	tabs       *container.AppTabs

	animator *ProgressAnimator

	// Analysis state, owned by the UI thread once published.
	catalog      *model.FormatCatalog
	videoOptions []model.StreamRecord
	audioOptions []model.AudioOption
	metadata     *model.VideoMetadata
	thumbnailURL string
	analyzedURL  string

	currentJobID     string
	currentConvertID string
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloadSvc *download.Service, convertSvc *convert.Service, historyStore *history.Store) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		downloadSvc:  downloadSvc,
		convertSvc:   convertSvc,
		historyStore: historyStore,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.animator = NewProgressAnimator(func(value float64) {
		fyne.Do(func() {
			ui.progressBar.SetValue(value / 100)
		})
	})

	// The age-gate notice fires once per run, from a worker goroutine.
	platform.SetAgeGateNotice(func() {
		fyne.Do(func() {
			ui.statusLabel.SetText(ui.localization.GetText(KeyAgeGateNotice))
		})
	})

	convertSvc.SetUpdateCallback(ui.onConversionUpdate)

	ui.setupUI()
	ui.animator.Start()
	go ui.consumeDownloadEvents()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	// URL row
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onAnalyzeClick() }

	pasteBtn := widget.NewButton(ui.localization.GetText(KeyPaste), ui.onPasteClick)
	pasteBtn.Importance = widget.LowImportance
	ui.analyzeBtn = widget.NewButton(ui.localization.GetText(KeyAnalyze), ui.onAnalyzeClick)

	urlRow := container.NewBorder(nil, nil, nil, container.NewHBox(pasteBtn, ui.analyzeBtn), ui.urlEntry)

	// Metadata card
	ui.thumbnail = canvas.NewImageFromResource(nil)
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))
	ui.thumbnail.FillMode = canvas.ImageFillContain

	ui.titleLabel = widget.NewLabel(DashPlaceholder)
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.metaLabel = widget.NewLabel("")

	metaCard := container.NewBorder(nil, nil, ui.thumbnail, nil,
		container.NewVBox(ui.titleLabel, ui.metaLabel))

	// Export selection
	ui.exportRadio = widget.NewRadioGroup([]string{"MP4", "MP3"}, func(string) {
		ui.refreshFormatOptions()
	})
	ui.exportRadio.Horizontal = true
	if ui.settings.GetExportFormat() == download.ExportMP3 {
		ui.exportRadio.SetSelected("MP3")
	} else {
		ui.exportRadio.SetSelected("MP4")
	}

	ui.formatSelect = widget.NewSelect(nil, nil)
	ui.formatSelect.PlaceHolder = DashPlaceholder

	// Output folder row
	ui.folderEntry = widget.NewEntry()
	ui.folderEntry.SetText(ui.settings.GetOutputDirectory())
	browseBtn := widget.NewButton(ui.localization.GetText(KeyBrowse), ui.onBrowseFolder)
	openBtn := widget.NewButton(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)
	openBtn.Importance = widget.LowImportance
	folderRow := container.NewBorder(nil, nil, nil, container.NewHBox(browseBtn, openBtn), ui.folderEntry)

	// Action row
	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()
	ui.cancelBtn = widget.NewButton(ui.localization.GetText(KeyCancel), ui.onCancelClick)
	ui.cancelBtn.Hide()
	ui.reencodeBtn = widget.NewButton(ui.localization.GetText(KeyReencode), ui.onReencodeClick)
	ui.reencodeBtn.Hide()

	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string {
		return fmt.Sprintf(ProgressLabelFormat, ui.progressBar.Value*100)
	}
	ui.statusLabel = widget.NewLabel("")

	downloadTab := container.NewVBox(
		urlRow,
		metaCard,
		widget.NewSeparator(),
		container.NewHBox(widget.NewLabel(ui.localization.GetText(KeyExportFormat)), ui.exportRadio),
		container.NewBorder(nil, nil, widget.NewLabel(ui.localization.GetText(KeyQuality)), nil, ui.formatSelect),
		container.NewBorder(nil, nil, widget.NewLabel(ui.localization.GetText(KeyOutputFolder)), nil, folderRow),
		container.NewHBox(ui.downloadBtn, ui.cancelBtn, ui.reencodeBtn),
		ui.progressBar,
		ui.statusLabel,
	)

	ui.historyTab = NewHistoryTab(ui.window, ui.historyStore, ui.localization, ui.copyToClipboard, ui.onReuseHistoryURL)
	ui.convertTab = NewConvertTab(ui.window, ui.convertSvc, ui.localization)

	ui.tabs = container.NewAppTabs(
		container.NewTabItem(ui.localization.GetText(KeyTabDownload), downloadTab),
		container.NewTabItem(ui.localization.GetText(KeyTabConvert), ui.convertTab.Container()),
		container.NewTabItem(ui.localization.GetText(KeyTabHistory), ui.historyTab.Container()),
	)

	ui.window.SetContent(ui.tabs)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	aboutItem := fyne.NewMenuItem(ui.localization.GetText(KeyAbout), ui.onShowAbout)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code // Capture for closure
		item := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		if ui.localization.GetCurrentLanguage() == code {
			item.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, item)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem, aboutItem),
		languageMenu,
	)
	ui.window.SetMainMenu(mainMenu)
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates the static labels after a language switch. The
// tab structure is rebuilt because AppTabs captions are fixed at creation.
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.analyzeBtn.SetText(ui.localization.GetText(KeyAnalyze))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.cancelBtn.SetText(ui.localization.GetText(KeyCancel))
	ui.reencodeBtn.SetText(ui.localization.GetText(KeyReencode))

	if ui.tabs != nil && len(ui.tabs.Items) == 3 {
		ui.tabs.Items[0].Text = ui.localization.GetText(KeyTabDownload)
		ui.tabs.Items[1].Text = ui.localization.GetText(KeyTabConvert)
		ui.tabs.Items[2].Text = ui.localization.GetText(KeyTabHistory)
		ui.tabs.Refresh()
	}
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

func (ui *RootUI) onPasteClick() {
	content := ui.window.Clipboard().Content()
	if content != "" {
		ui.urlEntry.SetText(strings.TrimSpace(content))
	}
}

// onReuseHistoryURL brings a past download's URL back into the form and
// jumps to the download tab, ready for a fresh analysis.
func (ui *RootUI) onReuseHistoryURL(urlText string) {
	ui.urlEntry.SetText(urlText)
	ui.tabs.SelectIndex(0)
}

func (ui *RootUI) copyToClipboard(text string) {
	ui.window.Clipboard().SetContent(text)
	ui.statusLabel.SetText(ui.localization.GetText(KeyURLCopied))
}

// onAnalyzeClick kicks off the three analysis fetches. Only an empty
// format catalog is fatal; metadata and thumbnail failures degrade to
// placeholders.
func (ui *RootUI) onAnalyzeClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.statusLabel.SetText(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}
	if err := ui.validateURL(urlText); err != nil {
		ui.statusLabel.SetText(ui.localization.GetText(KeyInvalidURL))
		return
	}

	ui.analyzeBtn.Disable()
	ui.downloadBtn.Disable()
	ui.statusLabel.SetText(ui.localization.GetText(KeyAnalyzing))

	cookieBrowser := ui.settings.GetCookieBrowser()

	go func() {
		ctx := context.Background()

		var (
			catalog   *model.FormatCatalog
			meta      *model.VideoMetadata
			thumbURL  string
			thumbData []byte
		)

		done := make(chan struct{}, 3)

		go func() {
			defer func() { done <- struct{}{} }()
			listing, err := platform.ListFormats(ctx, urlText, cookieBrowser)
			if err != nil {
				log.Printf("Format listing failed for %s: %v", urlText, err)
				return
			}
			catalog = platform.ParseFormatCatalog(listing)
		}()
		go func() {
			defer func() { done <- struct{}{} }()
			m, err := platform.FetchVideoMetadata(ctx, urlText, cookieBrowser)
			if err != nil {
				log.Printf("Metadata fetch failed for %s: %v", urlText, err)
				return
			}
			meta = m
		}()
		go func() {
			defer func() { done <- struct{}{} }()
			u, err := platform.FetchThumbnailURL(ctx, urlText, cookieBrowser)
			if err != nil {
				return
			}
			thumbURL = u
			if data, err := platform.FetchThumbnailImage(u); err == nil {
				thumbData = data
			}
		}()

		for i := 0; i < 3; i++ {
			<-done
		}

		fyne.Do(func() {
			ui.finishAnalysis(urlText, catalog, meta, thumbURL, thumbData)
		})
	}()
}

func (ui *RootUI) finishAnalysis(urlText string, catalog *model.FormatCatalog, meta *model.VideoMetadata, thumbURL string, thumbData []byte) {
	ui.analyzeBtn.Enable()

	if catalog == nil || catalog.IsEmpty() {
		ui.statusLabel.SetText("")
		dialog.ShowError(fmt.Errorf("%s", ui.localization.GetText(KeyNoFormatsFound)), ui.window)
		return
	}

	ui.analyzedURL = urlText
	ui.catalog = catalog
	ui.metadata = meta
	ui.thumbnailURL = thumbURL

	if meta != nil {
		ui.titleLabel.SetText(meta.Title)
		ui.metaLabel.SetText(ui.formatMetadataSummary(meta))
	} else {
		ui.titleLabel.SetText(urlText)
		ui.metaLabel.SetText("")
	}

	if thumbData != nil {
		ui.thumbnail.Resource = fyne.NewStaticResource("thumbnail", thumbData)
		ui.thumbnail.Refresh()
	}

	ui.refreshFormatOptions()
	ui.downloadBtn.Enable()
	ui.reencodeBtn.Hide()
	ui.statusLabel.SetText("")
}

// formatMetadataSummary assembles the secondary line of the metadata card.
func (ui *RootUI) formatMetadataSummary(meta *model.VideoMetadata) string {
	loc := ui.localization
	parts := []string{}
	if meta.Uploader != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", loc.GetText(KeyUploader), meta.Uploader))
	}
	if meta.UploadDate != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", loc.GetText(KeyUploadDate), meta.UploadDate))
	}
	if meta.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", loc.GetText(KeyDuration), meta.DurationString()))
	}
	if meta.ViewCount > 0 {
		parts = append(parts, fmt.Sprintf("%s: %d", loc.GetText(KeyViews), meta.ViewCount))
	}
	if meta.LikeCount > 0 {
		parts = append(parts, fmt.Sprintf("%s: %d", loc.GetText(KeyLikes), meta.LikeCount))
	}
	if meta.CommentCount > 0 {
		parts = append(parts, fmt.Sprintf("%s: %d", loc.GetText(KeyComments), meta.CommentCount))
	}
	return strings.Join(parts, "\n")
}

// refreshFormatOptions repopulates the quality picker for the current
// catalog and export format.
func (ui *RootUI) refreshFormatOptions() {
	if ui.catalog == nil || ui.formatSelect == nil {
		return
	}

	if ui.exportRadio.Selected == "MP3" {
		ui.audioOptions = platform.AudioExportOptions(ui.catalog.AudioOptions)
		ui.videoOptions = nil

		options := make([]string, 0, len(ui.audioOptions))
		for _, a := range ui.audioOptions {
			options = append(options, fmt.Sprintf(AudioOptionFormat, a.BitrateKbps, strings.ToUpper(a.ContainerExt)))
		}
		ui.formatSelect.Options = options
		if len(options) > 0 {
			ui.formatSelect.SetSelectedIndex(0)
		}
	} else {
		ui.videoOptions = ui.catalog.VideoOptions
		ui.audioOptions = nil

		options := make([]string, 0, len(ui.videoOptions))
		for _, v := range ui.videoOptions {
			sizeMB := 0.0
			if ui.metadata != nil {
				sizeMB = ui.metadata.EstimatedSizeMB(v.BitrateKbps)
			}
			options = append(options, fmt.Sprintf(FormatOptionFormat,
				v.Width, v.Height, v.FrameRate, v.BitrateKbps, sizeMB))
		}
		ui.formatSelect.Options = options
		if idx := platform.DefaultVideoSelection(ui.videoOptions); idx >= 0 {
			ui.formatSelect.SetSelectedIndex(idx)
		}
	}
	ui.formatSelect.Refresh()
}

// selectedFormatID resolves the quality picker selection to a yt-dlp
// format id.
func (ui *RootUI) selectedFormatID() string {
	idx := ui.formatSelect.SelectedIndex()
	if idx < 0 {
		return ""
	}
	if ui.exportRadio.Selected == "MP3" {
		if idx < len(ui.audioOptions) {
			return ui.audioOptions[idx].FormatID
		}
		return ""
	}
	if idx < len(ui.videoOptions) {
		return ui.videoOptions[idx].FormatID
	}
	return ""
}

func (ui *RootUI) onDownloadClick() {
	format := download.ExportMP4
	if ui.exportRadio.Selected == "MP3" {
		format = download.ExportMP3
	}
	ui.settings.SetExportFormat(format)
	ui.settings.SetOutputDirectory(ui.folderEntry.Text)

	title := ""
	if ui.metadata != nil {
		title = ui.metadata.Title
	}

	job, err := ui.downloadSvc.StartJob(download.Request{
		URL:           ui.analyzedURL,
		FormatID:      ui.selectedFormatID(),
		Title:         title,
		OutputDir:     ui.folderEntry.Text,
		Format:        format,
		CookieBrowser: ui.settings.GetCookieBrowser(),
	})
	if err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	ui.currentJobID = job.ID
	ui.animator.Reset()
	ui.progressBar.SetValue(0)
	ui.downloadBtn.Disable()
	ui.reencodeBtn.Hide()
	ui.cancelBtn.Show()
	ui.statusLabel.SetText(ui.localization.GetText(KeyDownloadStarted))
}

func (ui *RootUI) onCancelClick() {
	if ui.currentJobID == "" {
		return
	}
	if err := ui.downloadSvc.StopJob(ui.currentJobID); err != nil {
		log.Printf("Failed to stop job %s: %v", ui.currentJobID, err)
	}
}

// consumeDownloadEvents is the single reader of the download event stream.
func (ui *RootUI) consumeDownloadEvents() {
	for event := range ui.downloadSvc.Events() {
		switch event.Kind {
		case download.EventProgress:
			ui.animator.SetTarget(event.Progress)
		case download.EventStatus:
			ev := event // capture for the UI closure
			fyne.Do(func() {
				ui.applyJobStatus(ev)
			})
		}
	}
}

func (ui *RootUI) applyJobStatus(event download.Event) {
	if event.JobID != ui.currentJobID {
		return
	}

	switch event.Status {
	case model.StatusCompleted:
		ui.animator.SetTarget(100)
		ui.progressBar.SetValue(1)
		ui.cancelBtn.Hide()
		ui.downloadBtn.Enable()
		ui.statusLabel.SetText(ui.localization.GetText(KeyDownloadDone))
		ui.recordCompletedJob()
	case model.StatusStopped:
		ui.cancelBtn.Hide()
		ui.downloadBtn.Enable()
		ui.statusLabel.SetText(ui.localization.GetText(KeyDownloadStopped))
	case model.StatusError:
		ui.cancelBtn.Hide()
		ui.downloadBtn.Enable()
		ui.animator.Reset()
		ui.progressBar.SetValue(0)
		job := ui.downloadSvc.Job(event.JobID)
		message := ui.localization.GetText(KeyDownloadFailed)
		if job != nil && job.LastError != "" {
			message = fmt.Sprintf("%s: %s", message, job.LastError)
		}
		ui.statusLabel.SetText(message)
	}
}

// recordCompletedJob appends the finished download to history and runs
// the post-completion conveniences.
func (ui *RootUI) recordCompletedJob() {
	job := ui.downloadSvc.Job(ui.currentJobID)
	if job == nil {
		return
	}

	entry := model.HistoryEntry{
		Title:        job.GetDisplayTitle(),
		URL:          job.URL,
		ThumbnailURL: ui.thumbnailURL,
		DownloadDate: time.Now().Format(history.EntryDateLayout),
	}
	if _, err := ui.historyStore.Add(entry); err != nil {
		log.Printf("Failed to record history entry: %v", err)
	}
	ui.historyTab.Reload()

	if strings.HasSuffix(strings.ToLower(job.FinalPath), ".mp4") {
		ui.reencodeBtn.Show()
	}
	if ui.settings.GetOpenAfterFinish() {
		if err := platform.RevealInFolder(job.FinalPath); err != nil {
			log.Printf("Failed to reveal %s: %v", job.FinalPath, err)
		}
	}
}

func (ui *RootUI) onReencodeClick() {
	job := ui.downloadSvc.Job(ui.currentJobID)
	if job == nil {
		return
	}

	converted, err := ui.convertSvc.StartReencode(job.FinalPath)
	if err != nil {
		dialog.ShowError(err, ui.window)
		return
	}
	ui.currentConvertID = converted.ID
	ui.reencodeBtn.Disable()
	ui.animator.Reset()
	ui.progressBar.SetValue(0)
}

// onConversionUpdate arrives on the conversion worker goroutine. Updates
// for jobs started from the convert tab are routed there; the rest belong
// to the post-download re-encode.
func (ui *RootUI) onConversionUpdate(job *model.ConversionJob) {
	if job.ID != ui.currentConvertID {
		ui.convertTab.HandleUpdate(job)
		return
	}

	progress := job.Progress
	status := job.Status
	lastError := job.LastError

	fyne.Do(func() {
		ui.animator.SetTarget(progress)
		switch status {
		case model.StatusCompleted:
			ui.progressBar.SetValue(1)
			ui.reencodeBtn.Enable()
			ui.statusLabel.SetText(ui.localization.GetText(KeyReencodeDone))
		case model.StatusError:
			ui.reencodeBtn.Enable()
			message := ui.localization.GetText(KeyReencodeFailed)
			if lastError != "" {
				message = fmt.Sprintf("%s: %s", message, lastError)
			}
			ui.statusLabel.SetText(message)
		case model.StatusStopped:
			ui.reencodeBtn.Enable()
		}
	})
}

func (ui *RootUI) onBrowseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.folderEntry.SetText(uri.Path())
		ui.settings.SetOutputDirectory(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onOpenFolder() {
	if err := platform.OpenFolder(ui.folderEntry.Text); err != nil {
		dialog.ShowError(err, ui.window)
	}
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window).Show()
}

func (ui *RootUI) onShowAbout() {
	dialog.ShowInformation(
		ui.localization.GetText(KeyAbout),
		ui.localization.GetText(KeyAppTitle)+" - a yt-dlp / ffmpeg front end",
		ui.window,
	)
}
