package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle        = "app_title"
	KeyTabDownload     = "tab_download"
	KeyTabHistory      = "tab_history"
	KeyEnterURL        = "enter_url"
	KeyPaste           = "paste"
	KeyAnalyze         = "analyze"
	KeyDownload        = "download"
	KeyCancel          = "cancel"
	KeyReencode        = "reencode"
	KeyExportFormat    = "export_format"
	KeyQuality         = "quality"
	KeyOutputFolder    = "output_folder"
	KeyBrowse          = "browse"
	KeyOpenFolder      = "open_folder"
	KeySettings        = "settings"
	KeyFile            = "file"
	KeyLanguage        = "language"
	KeyAbout           = "about"
	KeyQuit            = "quit"
	KeyDarkTheme       = "dark_theme"
	KeySearchHistory   = "search_history"
	KeyCopyURL         = "copy_url"
	KeyDelete          = "delete"
	KeyClearHistory    = "clear_history"
	KeyConfirmDelete   = "confirm_delete"
	KeyConfirmClear    = "confirm_clear"
	KeyPleaseEnterURL  = "please_enter_url"
	KeyInvalidURL      = "invalid_url"
	KeyAnalyzing       = "analyzing"
	KeyNoFormatsFound  = "no_formats_found"
	KeyDownloadStarted = "download_started"
	KeyDownloadDone    = "download_done"
	KeyDownloadStopped = "download_stopped"
	KeyDownloadFailed  = "download_failed"
	KeyReencodeDone    = "reencode_done"
	KeyReencodeFailed  = "reencode_failed"
	KeyAgeGateNotice   = "age_gate_notice"
	KeyUploader        = "uploader"
	KeyUploadDate      = "upload_date"
	KeyViews           = "views"
	KeyLikes           = "likes"
	KeyComments        = "comments"
	KeyDuration        = "duration"
	KeyURLCopied       = "url_copied"
	KeyHistorySaved    = "history_saved"
	KeySave            = "save"
	KeySettingsSaved   = "settings_saved"
	KeyCookieBrowser   = "cookie_browser"
	KeyOpenAfterFinish = "open_after_finish"
	KeyDefaultFormat   = "default_format"
	KeyTabConvert      = "tab_convert"
	KeyInputFile       = "input_file"
	KeyConvert         = "convert"
	KeyConvertStarted  = "convert_started"
	KeyConvertDone     = "convert_done"
	KeyConvertFailed   = "convert_failed"
	KeyConvertStopped  = "convert_stopped"
	KeyVideoCodec      = "video_codec"
	KeyAudioCodec      = "audio_codec"
	KeyVideoBitrate    = "video_bitrate"
	KeyAudioBitrate    = "audio_bitrate"
	KeyResolution      = "resolution"
	KeyFrameRate       = "frame_rate"
	KeyPreset          = "preset"
	KeyContainer       = "container"
	KeyProbing         = "probing"
	KeyProbeFailed     = "probe_failed"
	KeyOutputSize      = "output_size"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"fr": "Français",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "ViDL",
		KeyTabDownload:     "Download",
		KeyTabHistory:      "History",
		KeyEnterURL:        "Enter video URL (https://youtube.com/watch?v=...)",
		KeyPaste:           "Paste",
		KeyAnalyze:         "Analyze",
		KeyDownload:        "Download",
		KeyCancel:          "Cancel",
		KeyReencode:        "Re-encode for compatibility",
		KeyExportFormat:    "Export format",
		KeyQuality:         "Quality",
		KeyOutputFolder:    "Output folder",
		KeyBrowse:          "Browse",
		KeyOpenFolder:      "Open folder",
		KeySettings:        "Settings",
		KeyFile:            "File",
		KeyLanguage:        "Language",
		KeyAbout:           "About",
		KeyQuit:            "Quit",
		KeyDarkTheme:       "Dark theme",
		KeySearchHistory:   "Search history...",
		KeyCopyURL:         "Copy URL",
		KeyDelete:          "Delete",
		KeyClearHistory:    "Clear history",
		KeyConfirmDelete:   "Delete this entry?",
		KeyConfirmClear:    "Delete the whole download history?",
		KeyPleaseEnterURL:  "Please enter a URL",
		KeyInvalidURL:      "Invalid URL",
		KeyAnalyzing:       "Analyzing video...",
		KeyNoFormatsFound:  "No downloadable formats found for this URL",
		KeyDownloadStarted: "Download started",
		KeyDownloadDone:    "Download completed",
		KeyDownloadStopped: "Download cancelled",
		KeyDownloadFailed:  "Download failed",
		KeyReencodeDone:    "Re-encode completed",
		KeyReencodeFailed:  "Re-encode failed",
		KeyAgeGateNotice:   "This video is age-restricted; retrying with browser cookies",
		KeyUploader:        "Channel",
		KeyUploadDate:      "Published",
		KeyViews:           "Views",
		KeyLikes:           "Likes",
		KeyComments:        "Comments",
		KeyDuration:        "Duration",
		KeyURLCopied:       "URL copied to clipboard",
		KeyHistorySaved:    "Saved to history",
		KeySave:            "Save",
		KeySettingsSaved:   "Settings saved successfully!",
		KeyCookieBrowser:   "Cookie browser",
		KeyOpenAfterFinish: "Open folder when a download finishes",
		KeyDefaultFormat:   "Default export format",
		KeyTabConvert:      "Convert",
		KeyInputFile:       "Input file",
		KeyConvert:         "Convert",
		KeyConvertStarted:  "Conversion started",
		KeyConvertDone:     "Conversion completed",
		KeyConvertFailed:   "Conversion failed",
		KeyConvertStopped:  "Conversion cancelled",
		KeyVideoCodec:      "Video codec",
		KeyAudioCodec:      "Audio codec",
		KeyVideoBitrate:    "Video bitrate",
		KeyAudioBitrate:    "Audio bitrate",
		KeyResolution:      "Resolution",
		KeyFrameRate:       "Frame rate",
		KeyPreset:          "Preset",
		KeyContainer:       "Container",
		KeyProbing:         "Reading file info...",
		KeyProbeFailed:     "Could not read file info",
		KeyOutputSize:      "Output size",
	}

	// French texts
	l.texts["fr"] = map[string]string{
		KeyAppTitle:        "ViDL",
		KeyTabDownload:     "Téléchargement",
		KeyTabHistory:      "Historique",
		KeyEnterURL:        "Entrez l'URL de la vidéo (https://youtube.com/watch?v=...)",
		KeyPaste:           "Coller",
		KeyAnalyze:         "Analyser",
		KeyDownload:        "Télécharger",
		KeyCancel:          "Annuler",
		KeyReencode:        "Ré-encoder pour compatibilité",
		KeyExportFormat:    "Format d'export",
		KeyQuality:         "Qualité",
		KeyOutputFolder:    "Dossier de sortie",
		KeyBrowse:          "Parcourir",
		KeyOpenFolder:      "Ouvrir le dossier",
		KeySettings:        "Paramètres",
		KeyFile:            "Fichier",
		KeyLanguage:        "Langue",
		KeyAbout:           "À propos",
		KeyQuit:            "Quitter",
		KeyDarkTheme:       "Thème sombre",
		KeySearchHistory:   "Rechercher dans l'historique...",
		KeyCopyURL:         "Copier l'URL",
		KeyDelete:          "Supprimer",
		KeyClearHistory:    "Vider l'historique",
		KeyConfirmDelete:   "Supprimer cette entrée ?",
		KeyConfirmClear:    "Supprimer tout l'historique de téléchargement ?",
		KeyPleaseEnterURL:  "Veuillez entrer une URL",
		KeyInvalidURL:      "URL invalide",
		KeyAnalyzing:       "Analyse de la vidéo...",
		KeyNoFormatsFound:  "Aucun format téléchargeable trouvé pour cette URL",
		KeyDownloadStarted: "Téléchargement démarré",
		KeyDownloadDone:    "Téléchargement terminé",
		KeyDownloadStopped: "Téléchargement annulé",
		KeyDownloadFailed:  "Échec du téléchargement",
		KeyReencodeDone:    "Ré-encodage terminé",
		KeyReencodeFailed:  "Échec du ré-encodage",
		KeyAgeGateNotice:   "Vidéo soumise à une restriction d'âge ; nouvel essai avec les cookies du navigateur",
		KeyUploader:        "Chaîne",
		KeyUploadDate:      "Publiée le",
		KeyViews:           "Vues",
		KeyLikes:           "J'aime",
		KeyComments:        "Commentaires",
		KeyDuration:        "Durée",
		KeyURLCopied:       "URL copiée dans le presse-papiers",
		KeyHistorySaved:    "Enregistré dans l'historique",
		KeySave:            "Enregistrer",
		KeySettingsSaved:   "Paramètres enregistrés !",
		KeyCookieBrowser:   "Navigateur pour les cookies",
		KeyOpenAfterFinish: "Ouvrir le dossier à la fin du téléchargement",
		KeyDefaultFormat:   "Format d'export par défaut",
		KeyTabConvert:      "Convertir",
		KeyInputFile:       "Fichier source",
		KeyConvert:         "Convertir",
		KeyConvertStarted:  "Conversion démarrée",
		KeyConvertDone:     "Conversion terminée",
		KeyConvertFailed:   "Échec de la conversion",
		KeyConvertStopped:  "Conversion annulée",
		KeyVideoCodec:      "Codec vidéo",
		KeyAudioCodec:      "Codec audio",
		KeyVideoBitrate:    "Débit vidéo",
		KeyAudioBitrate:    "Débit audio",
		KeyResolution:      "Résolution",
		KeyFrameRate:       "Images par seconde",
		KeyPreset:          "Préréglage",
		KeyContainer:       "Conteneur",
		KeyProbing:         "Lecture des informations du fichier...",
		KeyProbeFailed:     "Impossible de lire les informations du fichier",
		KeyOutputSize:      "Taille de sortie",
	}
}
