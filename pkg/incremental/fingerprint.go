package incremental

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

const (
	// fingerprintCacheSize bounds the in-memory hash cache. One entry per
	// source file; schema trees beyond this simply rehash.
	fingerprintCacheSize = 4096
	// fingerprintCacheTTL keeps cached hashes fresh across watch-mode runs.
	fingerprintCacheTTL = 10 * time.Minute
	// fingerprintParallelism caps concurrent file reads.
	fingerprintParallelism = 8
)

// hashCacheKey keys the hash cache by everything that identifies a file's
// content short of reading it.
type hashCacheKey struct {
	path    string
	size    int64
	modTime int64
}

// Fingerprinter computes file fingerprints, memoizing content hashes by
// (path, size, mtime) so unchanged files are never rehashed within a
// watch-mode session.
type Fingerprinter struct {
	cache *lru.LRU[hashCacheKey, string]
}

// NewFingerprinter creates a Fingerprinter with a bounded hash cache.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{
		cache: lru.NewLRU[hashCacheKey, string](fingerprintCacheSize, nil, fingerprintCacheTTL),
	}
}

// Fingerprint computes the fingerprint of one file under root. The returned
// path is the slash-separated relative path.
func (f *Fingerprinter) Fingerprint(root, rel string) (FileFingerprint, error) {
	full := filepath.Join(root, rel)
	info, err := os.Stat(full)
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("stat %s: %w", rel, err)
	}

	key := hashCacheKey{path: full, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if hash, ok := f.cache.Get(key); ok {
		return FileFingerprint{
			Path:    filepath.ToSlash(rel),
			Hash:    hash,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}, nil
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("reading %s: %w", rel, err)
	}
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])
	f.cache.Add(key, hash)

	return FileFingerprint{
		Path:    filepath.ToSlash(rel),
		Hash:    hash,
		Size:    int64(len(content)),
		ModTime: info.ModTime(),
	}, nil
}

// FingerprintAll fingerprints every listed file in parallel, bounded by a
// fixed worker limit. The first failure cancels the remaining reads.
func (f *Fingerprinter) FingerprintAll(ctx context.Context, root string, files []string) (map[string]FileFingerprint, error) {
	result := make(map[string]FileFingerprint, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fingerprintParallelism)

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fp, err := f.Fingerprint(root, rel)
			if err != nil {
				return err
			}
			mu.Lock()
			result[fp.Path] = fp
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
