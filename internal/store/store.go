// Package store persists per-score reading positions so reopening a score
// lands on the page the reader left, even after a reflow at a different
// viewport size.
package store

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by Lookup when no position was saved for a score.
var ErrNotFound = errors.New("store: no saved position")

// Position is the saved reading state of one score. Band is the anchor that
// survives reflows; Page is only valid for the geometry it was saved under
// and is kept for display purposes.
type Position struct {
	Page    int       `json:"page"`
	Band    int       `json:"band"`
	Zoom    float64   `json:"zoom"`
	Updated time.Time `json:"updated"`
}

// Store is a diskv-backed position store keyed by score file path.
type Store struct {
	d *diskv.Diskv
}

// DefaultBasePath returns the position store directory under the user's
// home.
func DefaultBasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".scoreleaf", "positions"), nil
}

// Open creates a Store rooted at basePath. The directory is created lazily
// on first write.
func Open(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 64 * 1024,
	})}
}

// Save records the position for a score file.
func (s *Store) Save(scorePath string, pos Position) error {
	if pos.Updated.IsZero() {
		pos.Updated = time.Now()
	}
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	if err := s.d.Write(toKey(scorePath), data); err != nil {
		return fmt.Errorf("store: save position: %w", err)
	}
	return nil
}

// Lookup returns the saved position for a score file.
func (s *Store) Lookup(scorePath string) (Position, error) {
	key := toKey(scorePath)
	if !s.d.Has(key) {
		return Position{}, ErrNotFound
	}
	data, err := s.d.Read(key)
	if err != nil {
		return Position{}, fmt.Errorf("store: read position: %w", err)
	}
	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return Position{}, fmt.Errorf("store: decode position: %w", err)
	}
	return pos, nil
}

// Forget removes the saved position for a score file. Forgetting a score
// that was never saved is not an error.
func (s *Store) Forget(scorePath string) error {
	key := toKey(scorePath)
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

// toKey hashes the cleaned absolute path so keys stay filename-safe no
// matter what the score path contains.
func toKey(scorePath string) string {
	abs, err := filepath.Abs(scorePath)
	if err != nil {
		abs = scorePath
	}
	sum := md5.Sum([]byte(filepath.Clean(abs)))
	return fmt.Sprintf("%x", sum)
}
