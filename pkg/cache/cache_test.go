package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testCacheContract exercises the behaviour every storing backend shares.
func testCacheContract(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "contract:" + t.Name()

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	want := []byte(`{"icoord":[[5,5,15,15]]}`)
	if err := c.Set(ctx, key, want, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Overwrite without expiry.
	if err := c.Set(ctx, key, []byte("v2"), 0); err != nil {
		t.Fatalf("Set overwrite error: %v", err)
	}
	if got, _, _ := c.Get(ctx, key); string(got) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	if err := c.Set(ctx, key, []byte("short"), time.Millisecond); err != nil {
		t.Fatalf("Set short ttl error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after expiry should miss")
	}

	if cl, ok := c.(Clearer); ok {
		_ = c.Set(ctx, key, []byte("x"), 0)
		if err := cl.Clear(ctx); err != nil {
			t.Fatalf("Clear error: %v", err)
		}
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Error("Get after Clear should miss")
		}
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	testCacheContract(t, c)
}

func TestFileCacheCompressed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	payload := []byte(strings.Repeat(`{"x1":50,"y1":320,"x2":50,"y2":220},`, 200))
	if err := c.Set(ctx, "layout:big", payload, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	count, size, err := c.Size()
	if err != nil {
		t.Fatalf("Size error: %v", err)
	}
	if count != 1 {
		t.Errorf("Size count = %d, want 1", count)
	}
	if size >= int64(len(payload)) {
		t.Errorf("on-disk size %d not smaller than payload %d", size, len(payload))
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	path := c.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "broken"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("corrupt entry should be removed")
	}
}

func TestSQLiteCache(t *testing.T) {
	c, err := NewSQLiteCache(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteCache error: %v", err)
	}
	defer c.Close()
	testCacheContract(t, c)
}

func TestSQLiteCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache error: %v", err)
	}
	defer c.Close()

	_ = c.Set(ctx, "keep", []byte("a"), 0)
	_ = c.Set(ctx, "drop", []byte("b"), time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d rows, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "keep"); !hit {
		t.Error("entry without ttl should survive Prune")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEAMTREE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEAMTREE_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), addr)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	// Keys must fall under SharedPrefix so Clear reaches them.
	scoped := &prefixed{Cache: c, prefix: SharedPrefix + "test:"}
	testCacheContract(t, scoped)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("TEAMTREE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEAMTREE_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "teamtree_test")
	if err != nil {
		t.Fatalf("NewMongoCache error: %v", err)
	}
	defer c.Close()
	testCacheContract(t, c)
}

// prefixed rewrites keys; Clear passes through.
type prefixed struct {
	Cache
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.Cache.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return p.Cache.Set(ctx, p.prefix+key, data, ttl)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Cache.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Clear(ctx context.Context) error {
	return p.Cache.(Clearer).Clear(ctx)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "none", cfg: Config{Backend: "none"}},
		{name: "file default", cfg: Config{Dir: t.TempDir()}},
		{name: "sqlite", cfg: Config{Backend: "SQLite", SQLitePath: filepath.Join(t.TempDir(), "c.db")}},
		{name: "file without dir", cfg: Config{Backend: "file"}, wantErr: ErrMissingConfig},
		{name: "redis without addr", cfg: Config{Backend: "redis"}, wantErr: ErrMissingConfig},
		{name: "mongo without uri", cfg: Config{Backend: "mongo"}, wantErr: ErrMissingConfig},
		{name: "unknown", cfg: Config{Backend: "memcached"}, wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, k, err := Open(ctx, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			defer c.Close()
			if k == nil {
				t.Error("Open() returned nil keyer")
			}
		})
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, err := HashJSON(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("HashJSON error: %v", err)
	}
	j2, _ := HashJSON(map[string]int{"a": 1, "b": 2})
	if j1 != j2 {
		t.Error("HashJSON should not depend on map insertion order")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("clustering", "epl/2024"); got != "http:clustering:epl/2024" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 800, Height: 600})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 400, Height: 600})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should start with layout: %s", lk1)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), SharedPrefix)

	if got := scoped.HTTPKey("clustering", "seriea"); got != "teamtree:v1:http:clustering:seriea" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, SharedPrefix+"layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", got)
	}

	// Nil inner falls back to DefaultKeyer.
	if got := NewScopedKeyer(nil, "p:").HTTPKey("a", "b"); got != "p:http:a:b" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}
