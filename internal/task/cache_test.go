package task

import (
	"path/filepath"
	"testing"

	"github.com/iscc/twinspect/internal/dataset"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "twinspect.db"))
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("ac64", "0000001/a.mp3", "aaaa")
	if len(a) != 16 {
		t.Errorf("fingerprint %q is not 64-bit hex", a)
	}

	// Any component change must change the fingerprint.
	variants := []string{
		Fingerprint("ac65", "0000001/a.mp3", "aaaa"),
		Fingerprint("ac64", "0000001/b.mp3", "aaaa"),
		Fingerprint("ac64", "0000001/a.mp3", "bbbb"),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d collides with base fingerprint", i)
		}
	}

	if Fingerprint("ac64", "0000001/a.mp3", "aaaa") != a {
		t.Error("fingerprint not deterministic")
	}
}

func TestTaskCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)

	fp := Fingerprint("ac64", "0000001/a.mp3", "aaaa")
	stored := &Task{ID: 7, File: "0000001/a.mp3", Code: "fd79f57fbd7de57f", Size: 1234, TimeMS: 42}
	if err := cache.PutTask(fp, "ac64", stored); err != nil {
		t.Fatalf("PutTask failed: %v", err)
	}

	got, ok, err := cache.GetTask(fp)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Code != stored.Code || got.Size != stored.Size || got.TimeMS != stored.TimeMS {
		t.Errorf("cached task %+v differs from stored %+v", got, stored)
	}

	// Duplicate writes are idempotent.
	if err := cache.PutTask(fp, "ac64", stored); err != nil {
		t.Errorf("duplicate PutTask failed: %v", err)
	}

	if _, ok, _ := cache.GetTask("unknown"); ok {
		t.Error("unexpected hit for unknown fingerprint")
	}
}

func TestTaskCacheRejectsFailures(t *testing.T) {
	cache := openTestCache(t)
	failed := &Task{ID: 1, File: "x.mp3", Error: "unsupported format"}
	if err := cache.PutTask("fp", "ac64", failed); err == nil {
		t.Error("expected error when caching a failed task")
	}
}

func TestInvalidateAlgorithm(t *testing.T) {
	cache := openTestCache(t)

	fpA := Fingerprint("ac64", "a.mp3", "h1")
	fpB := Fingerprint("vc256", "a.mp3", "h1")
	cache.PutTask(fpA, "ac64", &Task{File: "a.mp3", Code: "00"})
	cache.PutTask(fpB, "vc256", &Task{File: "a.mp3", Code: "11"})

	if err := cache.InvalidateAlgorithm("ac64"); err != nil {
		t.Fatalf("InvalidateAlgorithm failed: %v", err)
	}

	if _, ok, _ := cache.GetTask(fpA); ok {
		t.Error("ac64 entry should be gone")
	}
	if _, ok, _ := cache.GetTask(fpB); !ok {
		t.Error("vc256 entry should survive")
	}
}

func TestFileHashCache(t *testing.T) {
	cache := openTestCache(t)

	if _, ok := cache.GetFileHash("a.mp3", 10, 111); ok {
		t.Error("unexpected hit in empty cache")
	}

	cache.PutFileHash("a.mp3", 10, 111, "deadbeef")

	hash, ok := cache.GetFileHash("a.mp3", 10, 111)
	if !ok || hash != "deadbeef" {
		t.Errorf("GetFileHash = %q, %v; want deadbeef hit", hash, ok)
	}

	// A changed mtime misses: the entry is only valid for unchanged files.
	if _, ok := cache.GetFileHash("a.mp3", 10, 222); ok {
		t.Error("stale mtime should miss")
	}
}

func TestDatasetInfoCache(t *testing.T) {
	cache := openTestCache(t)

	ratio := 1.0
	info := &dataset.DatasetInfo{
		DatasetLabel:             "fma_small",
		DatasetMode:              "audio",
		TotalFiles:               10,
		TotalClusters:            2,
		TotalDistractorFiles:     5,
		RatioClusterToDistractor: &ratio,
		Transformations:          []string{"cmpmd"},
		Checksum:                 "abcdef0123456789",
	}
	if err := cache.PutDatasetInfo(info); err != nil {
		t.Fatalf("PutDatasetInfo failed: %v", err)
	}

	got, ok, err := cache.GetDatasetInfo(info.Checksum)
	if err != nil {
		t.Fatalf("GetDatasetInfo failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.TotalFiles != 10 || got.DatasetMode != "audio" {
		t.Errorf("cached info %+v differs from stored", got)
	}
	if got.RatioClusterToDistractor == nil || *got.RatioClusterToDistractor != 1.0 {
		t.Error("ratio lost in round trip")
	}

	if _, ok, _ := cache.GetDatasetInfo("0000000000000000"); ok {
		t.Error("unexpected hit for unknown checksum")
	}
}
