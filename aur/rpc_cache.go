package aur

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/safedep/dry/log"
)

// FileResponseCache is a TTL cache for RPC responses persisted as a single
// JSON file. It trades elegance for transparency: the whole file is read and
// written per operation, which is cheap at the sizes an AUR helper sees, and
// a corrupt or missing file simply behaves as empty.
type FileResponseCache struct {
	path string
	ttl  time.Duration

	// now is stubbed in tests.
	now func() time.Time
}

var _ ResponseCache = (*FileResponseCache)(nil)

type fileCacheEntry struct {
	Timestamp int64              `json:"timestamp"`
	Data      []*PackageMetadata `json:"data"`
}

func NewFileResponseCache(path string, ttl time.Duration) *FileResponseCache {
	return &FileResponseCache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (c *FileResponseCache) Get(key string) ([]*PackageMetadata, bool) {
	entries := c.load()

	entry, ok := entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Unix()-entry.Timestamp >= int64(c.ttl.Seconds()) {
		delete(entries, key)
		c.save(entries)
		return nil, false
	}

	return entry.Data, true
}

func (c *FileResponseCache) Put(key string, data []*PackageMetadata) {
	entries := c.load()
	entries[key] = fileCacheEntry{
		Timestamp: c.now().Unix(),
		Data:      data,
	}

	c.save(entries)
}

func (c *FileResponseCache) load() map[string]fileCacheEntry {
	entries := make(map[string]fileCacheEntry)

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return entries
	}

	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Debugf("discarding unreadable rpc cache at %s: %v", c.path, err)
		return make(map[string]fileCacheEntry)
	}

	return entries
}

// save failures are logged and ignored: the cache is an optimization, never
// a correctness requirement.
func (c *FileResponseCache) save(entries map[string]fileCacheEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Debugf("failed to marshal rpc cache: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		log.Debugf("failed to create rpc cache directory: %v", err)
		return
	}

	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		log.Debugf("failed to write rpc cache: %v", err)
	}
}
