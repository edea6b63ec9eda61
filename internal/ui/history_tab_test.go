package ui

import (
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/vidl-app/vidl/internal/history"
	"github.com/vidl-app/vidl/internal/model"
)

func newTestHistoryTab(t *testing.T, onReuse func(string)) *HistoryTab {
	t.Helper()

	app := test.NewApp()
	window := app.NewWindow("history")

	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"))
	mustAdd := func(entry model.HistoryEntry) {
		t.Helper()
		if _, err := store.Add(entry); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(model.HistoryEntry{
		Title:        "First video",
		URL:          "https://example.com/watch?v=1",
		DownloadDate: "2026-08-27 10:00",
	})
	mustAdd(model.HistoryEntry{
		Title:        "Second video",
		URL:          "https://example.com/watch?v=2",
		ThumbnailURL: "https://img.example.com/2.jpg",
		DownloadDate: "2026-08-28 10:00",
	})

	return NewHistoryTab(window, store, NewLocalization(), nil, onReuse)
}

func TestHistoryRowSelectionReusesURL(t *testing.T) {
	var reused []string
	tab := newTestHistoryTab(t, func(url string) {
		reused = append(reused, url)
	})

	// Entries render newest first.
	tab.onRowSelected(0)
	if len(reused) != 1 || reused[0] != "https://example.com/watch?v=2" {
		t.Fatalf("Reused URLs = %v, expected the newest entry's URL", reused)
	}

	tab.onRowSelected(1)
	if len(reused) != 2 || reused[1] != "https://example.com/watch?v=1" {
		t.Fatalf("Reused URLs = %v, expected both entries' URLs", reused)
	}

	// Out-of-range activations are ignored.
	tab.onRowSelected(99)
	tab.onRowSelected(-1)
	if len(reused) != 2 {
		t.Errorf("Reused URLs = %v, expected no further entries", reused)
	}
}

func TestHistoryThumbnailCaching(t *testing.T) {
	tab := newTestHistoryTab(t, nil)

	fetches := make(chan string, 4)
	tab.fetchThumbnail = func(url string) ([]byte, error) {
		fetches <- url
		return []byte{0x89, 0x50, 0x4e, 0x47}, nil
	}

	const url = "https://img.example.com/2.jpg"

	// First sight starts a background fetch and renders without an image.
	if res := tab.thumbnailResource(url); res != nil {
		t.Error("Expected no resource before the fetch lands")
	}

	select {
	case fetched := <-fetches:
		if fetched != url {
			t.Fatalf("Fetched %q, expected %q", fetched, url)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Thumbnail fetch never started")
	}

	// The cache fills shortly after the fetch returns.
	deadline := time.Now().Add(2 * time.Second)
	for {
		tab.thumbMu.Lock()
		_, cached := tab.thumbCache[url]
		tab.thumbMu.Unlock()
		if cached {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Thumbnail never cached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if res := tab.thumbnailResource(url); res == nil {
		t.Error("Expected the cached resource on a second lookup")
	}
	select {
	case extra := <-fetches:
		t.Errorf("Unexpected second fetch for %q", extra)
	default:
	}

	// Entries without a thumbnail never fetch.
	if res := tab.thumbnailResource(""); res != nil {
		t.Error("Expected no resource for an empty URL")
	}
}
