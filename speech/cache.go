package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const cacheFileExt = ".audio"

// Cache is a content-addressable on-disk store of synthesized clips. The
// key is a hash of the quote text, so identical text never resynthesizes,
// and keys are stable across processes: audio pre-cached during
// onboarding is reusable in every later session.
//
// There is no eviction: a user's quote set is capped at 30, so growth is
// bounded in practice. Clear removes everything.
type Cache struct {
	dir     string
	mu      sync.RWMutex
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCache opens (creating if needed) a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Key returns the deterministic content hash for text.
func (c *Cache) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(text string) string {
	return filepath.Join(c.dir, c.Key(text)+cacheFileExt)
}

// Has reports whether a clip exists for text.
func (c *Cache) Has(text string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, err := os.Stat(c.path(text))
	return err == nil
}

// Store writes a synthesized clip for text. The write is atomic
// (temp file then rename) so a crash mid-write never leaves a truncated
// clip behind.
func (c *Cache) Store(text string, clip []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	compressed := c.encoder.EncodeAll(clip, nil)

	path := c.path(text)
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	_, err = file.Write(compressed)
	closeErr := file.Close()
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close cache file: %w", closeErr)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize cache file: %w", err)
	}
	return nil
}

// Load returns the cached clip for text, or ErrNotCached when absent. A
// corrupt entry is removed and treated as absent.
func (c *Cache) Load(text string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.path(text)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	clip, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		os.Remove(path)
		return nil, ErrNotCached
	}
	return clip, nil
}

// Clear removes every cached clip.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExt {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry: %w", err)
		}
	}
	return nil
}

// Stats reports the entry count and total on-disk size in bytes.
func (c *Cache) Stats() (count int, size int64, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		size += info.Size()
	}
	return count, size, nil
}
