package config

import (
	"fyne.io/fyne/v2"

	"github.com/vidl-app/vidl/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir       = "output_directory"
	KeyExportFormat    = "export_format"
	KeyOpenAfterFinish = "open_folder_after_download"
	KeyLanguage        = "app_language"
	KeyDarkTheme       = "dark_theme"
	KeyCookieBrowser   = "cookie_browser"
)

// Default values
const (
	DefaultExportFormat    = "mp4"
	DefaultOpenAfterFinish = true
	DefaultLanguage        = "en"
	DefaultCookieBrowser   = "chrome"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the configured download output directory
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the download output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetExportFormat returns the preferred export format ("mp4" or "mp3")
func (s *Settings) GetExportFormat() string {
	format := s.app.Preferences().String(KeyExportFormat)
	if format != "mp4" && format != "mp3" {
		s.SetExportFormat(DefaultExportFormat)
		return DefaultExportFormat
	}
	return format
}

// SetExportFormat sets the preferred export format
func (s *Settings) SetExportFormat(format string) {
	s.app.Preferences().SetString(KeyExportFormat, format)
}

// GetOpenAfterFinish returns whether to open the output folder once a
// download completes
func (s *Settings) GetOpenAfterFinish() bool {
	return s.app.Preferences().BoolWithFallback(KeyOpenAfterFinish, DefaultOpenAfterFinish)
}

// SetOpenAfterFinish sets whether to open the output folder on completion
func (s *Settings) SetOpenAfterFinish(open bool) {
	s.app.Preferences().SetBool(KeyOpenAfterFinish, open)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetDarkTheme returns whether the dark theme is active
func (s *Settings) GetDarkTheme() bool {
	return s.app.Preferences().BoolWithFallback(KeyDarkTheme, false)
}

// SetDarkTheme sets the theme choice
func (s *Settings) SetDarkTheme(dark bool) {
	s.app.Preferences().SetBool(KeyDarkTheme, dark)
}

// GetCookieBrowser returns the browser used for age-gated retries
func (s *Settings) GetCookieBrowser() string {
	browser := s.app.Preferences().String(KeyCookieBrowser)
	if browser == "" {
		s.SetCookieBrowser(DefaultCookieBrowser)
		return DefaultCookieBrowser
	}
	return browser
}

// SetCookieBrowser sets the browser used for age-gated retries
func (s *Settings) SetCookieBrowser(browser string) {
	s.app.Preferences().SetString(KeyCookieBrowser, browser)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"en": "English",
		"fr": "Français",
	}
}

// GetCookieBrowserOptions returns the browsers yt-dlp can read cookies from
func (s *Settings) GetCookieBrowserOptions() []string {
	return []string{"chrome", "firefox", "safari", "edge", "brave"}
}
