package driver

import (
	"context"
	"testing"

	"movec/internal/check"
)

func TestCheckDirEmpty(t *testing.T) {
	fileSet, results, err := CheckDir(context.Background(), t.TempDir(), Options{MaxDiagnostics: 64})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if fileSet == nil {
		t.Fatal("expected a file set even for an empty directory")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestCheckDirMixed(t *testing.T) {
	dir := t.TempDir()
	writeUnitFile(t, dir, "a.mvu", cleanUnitBytes(t))
	writeUnitFile(t, dir, "b.mvu", movedUnitBytes(t))
	writeUnitFile(t, dir, "notes.txt", []byte("ignored"))

	_, results, err := CheckDir(context.Background(), dir, Options{MaxDiagnostics: 64, Jobs: 2})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// listUnitFiles sorts, so a.mvu comes first.
	if !results[0].Result.OK() {
		t.Fatalf("a.mvu should be clean, got %+v", results[0].Result.Violations)
	}
	if len(results[1].Result.Violations) != 1 {
		t.Fatalf("b.mvu should have one violation, got %+v", results[1].Result.Violations)
	}
	if results[1].Result.Violations[0].Kind != check.ViolationUseAfterMove {
		t.Fatalf("unexpected violation kind: %v", results[1].Result.Violations[0].Kind)
	}
}

func TestCheckDirCanceled(t *testing.T) {
	dir := t.TempDir()
	writeUnitFile(t, dir, "a.mvu", cleanUnitBytes(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := CheckDir(ctx, dir, Options{MaxDiagnostics: 64})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}

	dir := t.TempDir()
	writeUnitFile(t, dir, "moved.mvu", movedUnitBytes(t))

	// First run populates the cache.
	_, first, err := CheckDir(context.Background(), dir, Options{MaxDiagnostics: 64, Cache: cache})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first[0].Cached {
		t.Fatal("first run must not hit the cache")
	}

	// Second run over the same content replays from disk.
	_, second, err := CheckDir(context.Background(), dir, Options{MaxDiagnostics: 64, Cache: cache})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	res := second[0]
	if !res.Cached {
		t.Fatal("second run should hit the cache")
	}
	if len(res.Result.Violations) != 1 || res.Result.Violations[0].Binding != "s" {
		t.Fatalf("cached violations mismatch: %+v", res.Result.Violations)
	}
	if res.Result.Violations[0].CausedBy.Empty() {
		t.Fatal("cached violation lost its cause span")
	}

	// Replayed diagnostics must match the live ones byte for byte.
	live, replayed := first[0].Bag.Items(), res.Bag.Items()
	if len(live) != len(replayed) {
		t.Fatalf("diagnostic count mismatch: %d vs %d", len(live), len(replayed))
	}
	for i := range live {
		if live[i].Code != replayed[i].Code || live[i].Message != replayed[i].Message {
			t.Fatalf("diagnostic %d diverged:\nlive:     %+v\nreplayed: %+v", i, live[i], replayed[i])
		}
	}

	// Changed content misses the cache.
	writeUnitFile(t, dir, "moved.mvu", cleanUnitBytes(t))
	_, third, err := CheckDir(context.Background(), dir, Options{MaxDiagnostics: 64, Cache: cache})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third[0].Cached {
		t.Fatal("modified file must not hit the cache")
	}
	if !third[0].Result.OK() {
		t.Fatalf("rewritten file should be clean, got %+v", third[0].Result.Violations)
	}
}

func TestDiskCacheMissingKey(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	var key Digest
	if _, ok := cache.Lookup(key, 0); ok {
		t.Fatal("empty cache must miss")
	}
}
