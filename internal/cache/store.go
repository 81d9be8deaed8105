package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SchemaVersion is bumped whenever the cache layout or the meaning of a hash
// changes. A file with any other version is discarded on load.
const SchemaVersion = "1.0.0"

// ErrWrite wraps failures persisting the cache file.
var ErrWrite = errors.New("failed to write cache")

// Entry is the last-seen state of one declaration.
// Stored in the cache file under the declaration name.
type Entry struct {
	SourcePath  string `json:"source_path"`
	ContentHash string `json:"content_hash"`
}

// Cache maps declaration names to their last-seen source and content hash.
type Cache struct {
	Version     string           `json:"version"`
	GeneratedAt time.Time        `json:"generated_at"`
	Entries     map[string]Entry `json:"entries"`
}

// New returns an empty cache at the current schema version.
func New() *Cache {
	return &Cache{
		Version: SchemaVersion,
		Entries: make(map[string]Entry),
	}
}

// Load reads the cache at path. A missing file, unreadable JSON or a version
// mismatch all yield an empty cache; only I/O errors other than not-exist fail.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		// Corrupt cache is treated as a miss (graceful degradation)
		return New(), nil
	}

	if c.Version != SchemaVersion {
		return New(), nil
	}

	if c.Entries == nil {
		c.Entries = make(map[string]Entry)
	}

	return &c, nil
}

// IsValid reports whether name was seen before with exactly this hash.
func (c *Cache) IsValid(name, currentHash string) bool {
	e, ok := c.Entries[name]
	return ok && e.ContentHash == currentHash
}

// SetEntry records the current state of a declaration.
func (c *Cache) SetEntry(name, sourcePath, hash string) {
	if c.Entries == nil {
		c.Entries = make(map[string]Entry)
	}
	c.Entries[name] = Entry{SourcePath: sourcePath, ContentHash: hash}
}

// Get returns the entry for name.
func (c *Cache) Get(name string) (Entry, bool) {
	e, ok := c.Entries[name]
	return e, ok
}

// Prune drops entries whose names are not in keep and returns them sorted.
func (c *Cache) Prune(keep map[string]bool) []string {
	var removed []string
	for name := range c.Entries {
		if !keep[name] {
			removed = append(removed, name)
			delete(c.Entries, name)
		}
	}
	sort.Strings(removed)
	return removed
}

// Save writes the cache to path using atomic write (temp + rename).
func (c *Cache) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create cache directory: %v", ErrWrite, err)
	}

	c.Version = SchemaVersion
	c.GeneratedAt = time.Now().UTC()

	// Marshal with pretty printing for readability
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal cache: %v", ErrWrite, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write temp cache: %v", ErrWrite, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on failure
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to rename cache: %v", ErrWrite, err)
	}

	return nil
}

// HashContent returns the SHA-256 hex digest of a source file's full text.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
