package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestOutputDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetOutputDirectory()
	if dir == "" {
		t.Error("Output directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetOutputDirectory(customDir)

	if got := settings.GetOutputDirectory(); got != customDir {
		t.Errorf("Expected output directory %s, got %s", customDir, got)
	}
}

func TestExportFormat(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetExportFormat(); got != DefaultExportFormat {
		t.Errorf("Expected default format %s, got %s", DefaultExportFormat, got)
	}

	settings.SetExportFormat("mp3")
	if got := settings.GetExportFormat(); got != "mp3" {
		t.Errorf("Expected mp3, got %s", got)
	}

	// An unknown stored value falls back to the default.
	app.Preferences().SetString(KeyExportFormat, "flac")
	if got := settings.GetExportFormat(); got != DefaultExportFormat {
		t.Errorf("Expected fallback to %s, got %s", DefaultExportFormat, got)
	}
}

func TestOpenAfterFinish(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if !settings.GetOpenAfterFinish() {
		t.Error("Expected open-after-finish to default to true")
	}

	settings.SetOpenAfterFinish(false)
	if settings.GetOpenAfterFinish() {
		t.Error("Expected open-after-finish to be false after disabling")
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetLanguage(); got != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, got)
	}

	settings.SetLanguage("fr")
	if got := settings.GetLanguage(); got != "fr" {
		t.Errorf("Expected fr, got %s", got)
	}

	options := settings.GetLanguageOptions()
	if _, ok := options["en"]; !ok {
		t.Error("Expected English in language options")
	}
	if _, ok := options["fr"]; !ok {
		t.Error("Expected French in language options")
	}
}

func TestCookieBrowser(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetCookieBrowser(); got != DefaultCookieBrowser {
		t.Errorf("Expected default browser %s, got %s", DefaultCookieBrowser, got)
	}

	settings.SetCookieBrowser("firefox")
	if got := settings.GetCookieBrowser(); got != "firefox" {
		t.Errorf("Expected firefox, got %s", got)
	}

	if len(settings.GetCookieBrowserOptions()) == 0 {
		t.Error("Expected a non-empty browser list")
	}
}

func TestDarkTheme(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetDarkTheme() {
		t.Error("Expected light theme by default")
	}

	settings.SetDarkTheme(true)
	if !settings.GetDarkTheme() {
		t.Error("Expected dark theme after enabling")
	}
}
