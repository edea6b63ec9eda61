package ui

// Package ui contains the Fyne-based desktop user interface. It wires user
// interactions to the download, conversion and history services and renders
// the analysis results, progress and history. All UI strings are localized
// via Localization.
