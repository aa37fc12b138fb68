package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache is the durable set of external codes that are already settled.
type Cache interface {
	// Load reads the persisted set and makes it the membership snapshot.
	Load() (map[string]struct{}, error)
	// Contains tests membership against the last loaded snapshot.
	Contains(id string) bool
	// Add persists id. It is a no-op if id is already present.
	Add(id string) error
}

// cacheFile is the on-disk layout shared by the primary and backup files.
type cacheFile struct {
	ShippedOrders []string `json:"shippedOrders"`
	LastUpdate    string   `json:"lastUpdate"`
}

// FileCache is a JSON-file Cache with a shadow backup at "<path>.backup".
//
// Every mutation rewrites the backup before the primary, so a crash while
// writing leaves at least one readable copy. Each file is replaced through a
// temp file and a rename. Add calls within one process are serialized; nothing
// guards against a second process writing the same files.
type FileCache struct {
	path   string
	logger *zap.Logger
	now    func() time.Time

	// mu serializes file access.
	mu sync.Mutex

	setMu  sync.RWMutex
	loaded map[string]struct{}
}

// NewFileCache creates a cache backed by the file at path.
func NewFileCache(path string, logger *zap.Logger) *FileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCache{
		path:   path,
		logger: logger,
		now:    time.Now,
		loaded: make(map[string]struct{}),
	}
}

// Path returns the primary file path.
func (c *FileCache) Path() string {
	return c.path
}

// BackupPath returns the shadow file path.
func (c *FileCache) BackupPath() string {
	return c.path + ".backup"
}

// Load reads the primary file, falling back to the backup when the primary is
// missing or unreadable. When neither exists both are created empty.
// ErrCacheCorruption is returned only if the backup fails for a reason other
// than not existing.
func (c *FileCache) Load() (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.read()
	if err != nil {
		return nil, err
	}

	c.setMu.Lock()
	c.loaded = copySet(set)
	c.setMu.Unlock()

	return set, nil
}

// Contains reports whether id was present at the last Load or was added since.
func (c *FileCache) Contains(id string) bool {
	c.setMu.RLock()
	defer c.setMu.RUnlock()
	_, ok := c.loaded[id]
	return ok
}

// Add re-reads the cache from disk, inserts id and writes the backup followed
// by the primary. Any failure is reported as ErrCacheWrite and the caller must
// treat the order as not settled.
func (c *FileCache) Add(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.read()
	if err != nil {
		return fmt.Errorf("%w: reload before insert: %w", ErrCacheWrite, err)
	}

	if _, ok := set[id]; !ok {
		set[id] = struct{}{}
		if err := c.write(set); err != nil {
			return err
		}
	}

	c.setMu.Lock()
	c.loaded[id] = struct{}{}
	c.setMu.Unlock()

	return nil
}

// List returns the last loaded snapshot, sorted.
func (c *FileCache) List() []string {
	c.setMu.RLock()
	defer c.setMu.RUnlock()
	return sortedKeys(c.loaded)
}

// Entries reads the cache from disk and returns its codes, sorted. The loaded
// snapshot used by Contains is left unchanged.
func (c *FileCache) Entries() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.read()
	if err != nil {
		return nil, err
	}
	return sortedKeys(set), nil
}

// read applies the recovery policy. Caller holds c.mu.
func (c *FileCache) read() (map[string]struct{}, error) {
	primary, primaryErr := readCacheFile(c.path)
	if primaryErr == nil {
		return primary, nil
	}

	backup, backupErr := readCacheFile(c.BackupPath())
	switch {
	case backupErr == nil:
		if !errors.Is(primaryErr, fs.ErrNotExist) {
			c.logger.Warn("Cache file unreadable, recovered from backup",
				zap.String("path", c.path),
				zap.Int("entries", len(backup)),
				zap.Error(primaryErr),
			)
		} else {
			c.logger.Warn("Cache file missing, recovered from backup",
				zap.String("path", c.path),
				zap.Int("entries", len(backup)),
			)
		}
		return backup, nil

	case errors.Is(backupErr, fs.ErrNotExist):
		if errors.Is(primaryErr, fs.ErrNotExist) {
			empty := make(map[string]struct{})
			if err := c.write(empty); err != nil {
				return nil, err
			}
			c.logger.Info("Initialized empty cache", zap.String("path", c.path))
			return empty, nil
		}
		c.logger.Warn("Cache file unreadable and no backup present, starting empty",
			zap.String("path", c.path),
			zap.Error(primaryErr),
		)
		return make(map[string]struct{}), nil

	default:
		return nil, fmt.Errorf("%w: primary: %v; backup: %w", ErrCacheCorruption, primaryErr, backupErr)
	}
}

// write persists set to the backup first and then to the primary. Caller holds c.mu.
func (c *FileCache) write(set map[string]struct{}) error {
	data, err := json.MarshalIndent(cacheFile{
		ShippedOrders: sortedKeys(set),
		LastUpdate:    c.now().UTC().Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrCacheWrite, err)
	}

	if err := writeFileAtomic(c.BackupPath(), data); err != nil {
		return fmt.Errorf("%w: backup: %w", ErrCacheWrite, err)
	}
	if err := writeFileAtomic(c.path, data); err != nil {
		return fmt.Errorf("%w: primary: %w", ErrCacheWrite, err)
	}
	return nil
}

func readCacheFile(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	set := make(map[string]struct{}, len(f.ShippedOrders))
	for _, id := range f.ShippedOrders {
		set[id] = struct{}{}
	}
	return set, nil
}

func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
