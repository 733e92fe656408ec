package testsupport

import (
	"testing"

	"captioner/internal/config"
	"captioner/internal/transcriptcache"
)

// MustOpenCache opens a transcript cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcriptcache.Cache {
	t.Helper()

	cache, err := transcriptcache.Open(cfg)
	if err != nil {
		t.Fatalf("transcriptcache.Open: %v", err)
	}
	t.Cleanup(func() {
		cache.Close()
	})
	return cache
}
