package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vidl-app/vidl/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	// UI components
	outputDirEntry *widget.Entry
	formatSelect   *widget.Select
	openAfterCheck *widget.Check
	darkThemeCheck *widget.Check
	browserSelect  *widget.Select
	languageSelect *widget.Select
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	loc := sd.localization

	// Output directory selection
	sd.outputDirEntry = widget.NewEntry()
	browseBtn := widget.NewButton(loc.GetText(KeyBrowse), sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseBtn, sd.outputDirEntry)

	// Default export format
	sd.formatSelect = widget.NewSelect([]string{"mp4", "mp3"}, nil)

	// Open folder after a finished download
	sd.openAfterCheck = widget.NewCheck(loc.GetText(KeyOpenAfterFinish), nil)

	// Theme
	sd.darkThemeCheck = widget.NewCheck(loc.GetText(KeyDarkTheme), nil)

	// Cookie browser for age-gated retries
	sd.browserSelect = widget.NewSelect(sd.settings.GetCookieBrowserOptions(), nil)

	// Language selection
	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(loc.GetText(KeyOutputFolder)),
		outputDirRow,

		widget.NewLabel(loc.GetText(KeyDefaultFormat)),
		sd.formatSelect,

		sd.openAfterCheck,

		widget.NewLabel(loc.GetText(KeyCookieBrowser)),
		sd.browserSelect,

		widget.NewSeparator(),

		widget.NewLabel(loc.GetText(KeyLanguage)),
		sd.languageSelect,

		sd.darkThemeCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		loc.GetText(KeySettings),
		loc.GetText(KeySave),
		loc.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(480, 420))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.outputDirEntry.SetText(sd.settings.GetOutputDirectory())
	sd.formatSelect.SetSelected(sd.settings.GetExportFormat())
	sd.openAfterCheck.SetChecked(sd.settings.GetOpenAfterFinish())
	sd.darkThemeCheck.SetChecked(sd.settings.GetDarkTheme())
	sd.browserSelect.SetSelected(sd.settings.GetCookieBrowser())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if sd.outputDirEntry.Text != "" {
		sd.settings.SetOutputDirectory(sd.outputDirEntry.Text)
	}
	if sd.formatSelect.Selected != "" {
		sd.settings.SetExportFormat(sd.formatSelect.Selected)
	}
	sd.settings.SetOpenAfterFinish(sd.openAfterCheck.Checked)
	sd.settings.SetDarkTheme(sd.darkThemeCheck.Checked)
	if sd.browserSelect.Selected != "" {
		sd.settings.SetCookieBrowser(sd.browserSelect.Selected)
	}
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	dialog.ShowInformation(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySettingsSaved),
		sd.window,
	)
}
