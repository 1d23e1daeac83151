// Package htmlcache is a persistent, expiring key-value store over
// normalized URLs, holding successful HTML fetch responses so a crawl
// (or a later one, within the cache's lifetime) never re-fetches a page
// it has already seen recently.
package htmlcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rohmanhakim/naive-backlink/pkg/failure"
	"github.com/rohmanhakim/naive-backlink/pkg/fileutil"
	"github.com/rohmanhakim/naive-backlink/pkg/hashutil"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("html_cache")

// Cache is a bbolt-backed store of Entry values keyed by the hash of a
// normalized URL. A nil db (constructed via Disabled) makes every
// operation a silent no-op, matching the "disabled cache" contract.
type Cache struct {
	db          *bolt.DB
	dir         string
	ttl         time.Duration
	storeErrors bool
}

// Open creates or opens the bbolt database at dir/cache.db. ttl is the
// entry lifetime; storeErrors, when true, relaxes the 200/text-html
// write gate so error responses are cached too.
func Open(dir string, ttl time.Duration, storeErrors bool) (*Cache, failure.ClassifiedError) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, "cache.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseOpenFailed}
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseOpenFailed}
	}
	return &Cache{db: db, dir: dir, ttl: ttl, storeErrors: storeErrors}, nil
}

// Disabled returns a Cache where every operation is a no-op, for crawls
// run with caching turned off.
func Disabled() *Cache {
	return &Cache{}
}

func (c *Cache) enabled() bool {
	return c != nil && c.db != nil
}

// Get returns the cached entry for normalizedURL if present, unexpired,
// and eligible (status 200, text/html content type) — or storeErrors was
// set at Open time, in which case eligibility is not re-checked on read.
// A disabled cache, a miss, or an expired entry all return (Entry{}, false).
func (c *Cache) Get(normalizedURL string) (Entry, bool) {
	if !c.enabled() {
		return Entry{}, false
	}
	var raw []byte
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		v := b.Get(cacheKey(normalizedURL))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	if c.ttl > 0 && time.Since(entry.StoredAt) > c.ttl {
		return Entry{}, false
	}
	if !entry.eligible() && !c.storeErrors {
		return Entry{}, false
	}
	return entry, true
}

// SetHTMLOK stores entry under normalizedURL's key when the write gate
// passes: status 200 and a text/html content type, unless storeErrors
// was configured at Open time. A disabled cache silently accepts the
// call and does nothing.
func (c *Cache) SetHTMLOK(normalizedURL string, entry Entry) failure.ClassifiedError {
	if !c.enabled() {
		return nil
	}
	if !entry.eligible() && !c.storeErrors {
		return nil
	}
	entry.Headers = lowercaseKeys(entry.Headers)
	entry.ContentType = lowerASCIISimple(entry.ContentType)
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now()
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseEncodeFailed}
	}
	key := cacheKey(normalizedURL)
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, raw)
	}); err != nil {
		return &CacheError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteFailed}
	}
	return nil
}

// ClearAll deletes every cached entry. A disabled cache silently no-ops.
func (c *Cache) ClearAll() failure.ClassifiedError {
	if !c.enabled() {
		return nil
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		return &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailed}
	}
	return nil
}

// Stats describes the cache's on-disk footprint.
type Stats struct {
	ItemCount   int
	BytesOnDisk int64
	Directory   string
}

// Stats reports the item count, bytes on disk, and cache directory. A
// disabled cache reports an empty Stats with no error.
func (c *Cache) Stats() (Stats, failure.ClassifiedError) {
	if !c.enabled() {
		return Stats{}, nil
	}
	var count int
	_ = c.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketName).Stats().KeyN
		return nil
	})
	var size int64
	if fi, err := os.Stat(filepath.Join(c.dir, "cache.db")); err == nil {
		size = fi.Size()
	}
	return Stats{ItemCount: count, BytesOnDisk: size, Directory: c.dir}, nil
}

// Close releases the underlying database handle. A disabled cache
// silently no-ops.
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.db.Close()
}

func cacheKey(normalizedURL string) []byte {
	digest, _ := hashutil.HashBytes([]byte(normalizedURL), hashutil.HashAlgoSHA256)
	return []byte(digest)
}

func lowercaseKeys(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[lowerASCIISimple(k)] = v
	}
	return out
}

func lowerASCIISimple(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
