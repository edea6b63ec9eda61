package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/vidl-app/vidl/internal/history"
	"github.com/vidl-app/vidl/internal/model"
	"github.com/vidl-app/vidl/internal/platform"
)

// Row thumbnail dimensions
const (
	RowThumbnailWidth  float32 = 80
	RowThumbnailHeight float32 = 45
)

// HistoryTab renders the download history with search, copy and delete.
// Selecting a row feeds its URL back into the download form.
type HistoryTab struct {
	window       fyne.Window
	store        *history.Store
	localization *Localization

	searchEntry *widget.Entry
	list        *widget.List
	clearBtn    *widget.Button
	content     *fyne.Container

	filtered []model.HistoryEntry

	// Row thumbnails are fetched once per URL and cached for the life of
	// the tab. fetchThumbnail is swappable for tests.
	thumbMu        sync.Mutex
	thumbCache     map[string]fyne.Resource
	thumbPending   map[string]bool
	fetchThumbnail func(string) ([]byte, error)

	// onCopyURL puts a URL on the clipboard; onReuseURL sends a selected
	// entry's URL back to the download form. Both are injected so the tab
	// stays testable without a live window.
	onCopyURL  func(string)
	onReuseURL func(string)
}

// NewHistoryTab creates the history tab backed by store.
func NewHistoryTab(window fyne.Window, store *history.Store, localization *Localization, onCopyURL, onReuseURL func(string)) *HistoryTab {
	tab := &HistoryTab{
		window:         window,
		store:          store,
		localization:   localization,
		thumbCache:     make(map[string]fyne.Resource),
		thumbPending:   make(map[string]bool),
		fetchThumbnail: platform.FetchThumbnailImage,
		onCopyURL:      onCopyURL,
		onReuseURL:     onReuseURL,
	}

	tab.setupUI()
	tab.Reload()
	return tab
}

// Container returns the tab's root canvas object.
func (t *HistoryTab) Container() fyne.CanvasObject {
	return t.content
}

// Reload re-applies the current search filter against the store.
func (t *HistoryTab) Reload() {
	t.filtered = t.store.Search(t.searchEntry.Text)
	t.list.Refresh()
}

func (t *HistoryTab) setupUI() {
	t.searchEntry = widget.NewEntry()
	t.searchEntry.SetPlaceHolder(t.localization.GetText(KeySearchHistory))
	t.searchEntry.OnChanged = func(string) { t.Reload() }

	t.clearBtn = widget.NewButton(t.localization.GetText(KeyClearHistory), t.onClearClick)
	t.clearBtn.Importance = widget.LowImportance

	t.list = widget.NewList(
		func() int { return len(t.filtered) },
		func() fyne.CanvasObject { return t.createRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { t.updateRow(id, obj) },
	)
	t.list.OnSelected = t.onRowSelected

	top := container.NewBorder(nil, nil, nil, t.clearBtn, t.searchEntry)
	t.content = container.NewBorder(top, nil, nil, nil, t.list)
}

// createRow builds the template row: thumbnail and title on the left, the
// date and copy/delete actions on the right.
func (t *HistoryTab) createRow() fyne.CanvasObject {
	thumb := canvas.NewImageFromResource(nil)
	thumb.SetMinSize(fyne.NewSize(RowThumbnailWidth, RowThumbnailHeight))
	thumb.FillMode = canvas.ImageFillContain

	title := widget.NewLabel("")
	title.Truncation = fyne.TextTruncateEllipsis
	date := widget.NewLabel("")

	copyBtn := widget.NewButton(t.localization.GetText(KeyCopyURL), nil)
	copyBtn.Importance = widget.LowImportance
	deleteBtn := widget.NewButton(t.localization.GetText(KeyDelete), nil)
	deleteBtn.Importance = widget.LowImportance

	actions := container.NewHBox(copyBtn, deleteBtn)
	return container.NewBorder(nil, nil, thumb, container.NewHBox(date, actions), title)
}

func (t *HistoryTab) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(t.filtered) {
		return
	}
	entry := t.filtered[id]

	border := obj.(*fyne.Container)
	title := border.Objects[0].(*widget.Label)
	thumb := border.Objects[1].(*canvas.Image)
	right := border.Objects[2].(*fyne.Container)
	date := right.Objects[0].(*widget.Label)
	actions := right.Objects[1].(*fyne.Container)
	copyBtn := actions.Objects[0].(*widget.Button)
	deleteBtn := actions.Objects[1].(*widget.Button)

	title.SetText(entry.Title)
	date.SetText(entry.DownloadDate)

	thumb.Resource = t.thumbnailResource(entry.ThumbnailURL)
	thumb.Refresh()

	copyBtn.OnTapped = func() {
		if t.onCopyURL != nil {
			t.onCopyURL(entry.URL)
		}
	}
	deleteBtn.OnTapped = func() { t.onDeleteClick(entry) }
}

// onRowSelected reuses the entry's URL in the download form. The row is
// unselected straight away so the same entry can be picked again.
func (t *HistoryTab) onRowSelected(id widget.ListItemID) {
	if id < 0 || id >= len(t.filtered) {
		return
	}
	entry := t.filtered[id]
	t.list.UnselectAll()
	if t.onReuseURL != nil {
		t.onReuseURL(entry.URL)
	}
}

// thumbnailResource returns the cached image for url, kicking off a
// background fetch on first sight. Rows render without an image until the
// fetch lands and the list refreshes.
func (t *HistoryTab) thumbnailResource(url string) fyne.Resource {
	if url == "" {
		return nil
	}

	t.thumbMu.Lock()
	if res, ok := t.thumbCache[url]; ok {
		t.thumbMu.Unlock()
		return res
	}
	if t.thumbPending[url] {
		t.thumbMu.Unlock()
		return nil
	}
	t.thumbPending[url] = true
	t.thumbMu.Unlock()

	go func() {
		data, err := t.fetchThumbnail(url)

		t.thumbMu.Lock()
		delete(t.thumbPending, url)
		if err == nil && len(data) > 0 {
			t.thumbCache[url] = fyne.NewStaticResource(url, data)
		}
		t.thumbMu.Unlock()

		if err == nil {
			fyne.Do(t.list.Refresh)
		}
	}()
	return nil
}

func (t *HistoryTab) onDeleteClick(entry model.HistoryEntry) {
	dialog.ShowConfirm(
		t.localization.GetText(KeyDelete),
		t.localization.GetText(KeyConfirmDelete),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if index, ok := t.storeIndex(entry); ok {
				if err := t.store.Delete(index); err != nil {
					dialog.ShowError(err, t.window)
				}
			}
			t.Reload()
		},
		t.window,
	)
}

func (t *HistoryTab) onClearClick() {
	dialog.ShowConfirm(
		t.localization.GetText(KeyClearHistory),
		t.localization.GetText(KeyConfirmClear),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := t.store.Clear(); err != nil {
				dialog.ShowError(err, t.window)
			}
			t.Reload()
		},
		t.window,
	)
}

// storeIndex maps a filtered entry back to its position in the store.
func (t *HistoryTab) storeIndex(entry model.HistoryEntry) (int, bool) {
	for i, e := range t.store.Entries() {
		if e.Title == entry.Title && e.URL == entry.URL && e.DownloadDate == entry.DownloadDate {
			return i, true
		}
	}
	return 0, false
}
