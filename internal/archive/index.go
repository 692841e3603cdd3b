package archive

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Entry records one archived item in the local index.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
}

// Index is the local record of everything archived from this machine.
// It persists archives across invocations; scan results are never
// persisted.
type Index struct {
	Entries []Entry `json:"entries"`
}

// IndexPath returns the index location under the XDG data home.
func IndexPath() string {
	return filepath.Join(xdg.DataHome, "souji", "archive_index.json")
}

// LoadIndex reads the index; a missing file yields an empty index.
func LoadIndex() (*Index, error) {
	return loadIndexFrom(IndexPath())
}

func loadIndexFrom(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{}, nil
		}
		return nil, fmt.Errorf("read archive index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse archive index: %w", err)
	}
	return &idx, nil
}

// Save writes the index back to disk.
func (idx *Index) Save() error {
	return idx.saveTo(IndexPath())
}

func (idx *Index) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Add appends a new entry and returns it.
func (idx *Index) Add(source, key string, size int64) Entry {
	e := Entry{
		ID:        newID(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Key:       key,
		Size:      size,
	}
	idx.Entries = append(idx.Entries, e)
	return e
}

// Find returns the entry with the given id.
func (idx *Index) Find(id string) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fall back to a time-derived id; uniqueness here is cosmetic.
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
