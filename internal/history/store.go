package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vidl-app/vidl/internal/model"
)

// Storage constants
const (
	AppConfigDirName = "vidl"
	HistoryFileName  = "history.json"

	// EntryDateLayout is the stored timestamp format; its first ten
	// characters are the calendar date used for deduplication.
	EntryDateLayout = "2006-01-02 15:04"

	dateOnlyLength = 10

	filePermissions = 0644
	dirPermissions  = 0755
)

// DefaultPath returns the history file location under the user config dir.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(configDir, AppConfigDirName, HistoryFileName), nil
}

// Store keeps the download history in memory and mirrors every change to
// its backing file. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []model.HistoryEntry
}

// NewStore loads the history from path. A missing or unreadable file
// yields an empty history rather than an error: losing old entries must
// never block a download.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}
	s.entries = entries
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPermissions); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.entries); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), filePermissions); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Entries returns a copy of the history, newest first.
func (s *Store) Entries() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add prepends entry unless an entry with the same title or URL already
// exists for the same calendar date. It reports whether the entry was
// actually stored.
func (s *Store) Add(entry model.HistoryEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.DownloadDate == "" {
		entry.DownloadDate = time.Now().Format(EntryDateLayout)
	}
	date := datePart(entry.DownloadDate)
	for _, existing := range s.entries {
		if datePart(existing.DownloadDate) != date {
			continue
		}
		if existing.Title == entry.Title || existing.URL == entry.URL {
			return false, nil
		}
	}

	s.entries = append([]model.HistoryEntry{entry}, s.entries...)
	return true, s.save()
}

// Delete removes the entry at index.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("history index out of range: %d", index)
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return s.save()
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return s.save()
}

// Search returns the entries whose title or URL contains query,
// case-insensitively. An empty query returns everything.
func (s *Store) Search(query string) []model.HistoryEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Entries()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.HistoryEntry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Title), query) ||
			strings.Contains(strings.ToLower(e.URL), query) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func datePart(stamp string) string {
	if len(stamp) < dateOnlyLength {
		return stamp
	}
	return stamp[:dateOnlyLength]
}
