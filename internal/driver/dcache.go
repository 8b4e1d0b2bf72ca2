package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"movec/internal/check"
	"movec/internal/source"
)

// Digest keys cached results by the sha256 of the unit file content.
type Digest = [32]byte

// Current schema version - increment when cachePayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты проверки по хэшу файла на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// cacheSpan keeps byte offsets only; FileIDs are rebound on lookup since
// they are assigned per invocation.
type cacheSpan struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

func toCacheSpan(sp source.Span) cacheSpan {
	return cacheSpan{Start: sp.Start, End: sp.End}
}

func (s cacheSpan) bind(file source.FileID) source.Span {
	return source.Span{File: file, Start: s.Start, End: s.End}
}

type cacheViolation struct {
	Kind     uint8     `msgpack:"kind"`
	Binding  string    `msgpack:"binding"`
	Loc      cacheSpan `msgpack:"loc"`
	CausedBy cacheSpan `msgpack:"caused_by"`
	HasCause bool      `msgpack:"has_cause"`
}

type cacheRelease struct {
	Binding string    `msgpack:"binding"`
	Decl    cacheSpan `msgpack:"decl"`
	At      cacheSpan `msgpack:"at"`
}

// cachePayload stores one completed pass for fast re-runs.
type cachePayload struct {
	Schema     uint16           `msgpack:"schema"`
	Unit       string           `msgpack:"unit"`
	Violations []cacheViolation `msgpack:"violations"`
	Plan       []cacheRelease   `msgpack:"plan"`
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt uses an explicit directory; tests point it at t.TempDir().
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "units" — для удобства читаемости/очистки.
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Store serializes and writes one pass result to the disk cache.
func (c *DiskCache) Store(key Digest, res *check.Result) error {
	if c == nil || res == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachePayload{
		Schema: diskCacheSchemaVersion,
		Unit:   res.Unit,
	}
	for _, v := range res.Violations {
		payload.Violations = append(payload.Violations, cacheViolation{
			Kind:     uint8(v.Kind),
			Binding:  v.Binding,
			Loc:      toCacheSpan(v.Loc),
			CausedBy: toCacheSpan(v.CausedBy),
			HasCause: !v.CausedBy.Empty(),
		})
	}
	for _, rel := range res.Plan {
		payload.Plan = append(payload.Plan, cacheRelease{
			Binding: rel.Binding,
			Decl:    toCacheSpan(rel.Decl),
			At:      toCacheSpan(rel.At),
		})
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Lookup reads a cached pass result and rebinds its spans to file.
func (c *DiskCache) Lookup(key Digest, file source.FileID) (*check.Result, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		return nil, false
	}
	defer func() {
		_ = f.Close()
	}()

	var payload cachePayload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}

	res := &check.Result{Unit: payload.Unit}
	for _, v := range payload.Violations {
		violation := check.Violation{
			Kind:    check.ViolationKind(v.Kind),
			Binding: v.Binding,
			Loc:     v.Loc.bind(file),
		}
		if v.HasCause {
			violation.CausedBy = v.CausedBy.bind(file)
		}
		res.Violations = append(res.Violations, violation)
	}
	for _, rel := range payload.Plan {
		res.Plan = append(res.Plan, check.Release{
			Binding: rel.Binding,
			Decl:    rel.Decl.bind(file),
			At:      rel.At.bind(file),
		})
	}
	return res, true
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("drop cache: %w", err)
	}
	return os.RemoveAll(old)
}
