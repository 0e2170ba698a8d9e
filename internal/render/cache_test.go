package render

import (
	"sync"
	"testing"
)

func TestCacheKey(t *testing.T) {
	opts1 := DefaultOptions()
	opts2 := DefaultOptions().WithWidth(100)
	opts3 := DefaultOptions().WithStyle("light")

	if cacheKey(opts1) == cacheKey(opts2) {
		t.Error("Different widths should produce different keys")
	}
	if cacheKey(opts1) == cacheKey(opts3) {
		t.Error("Different styles should produce different keys")
	}
	if cacheKey(opts1) != cacheKey(DefaultOptions()) {
		t.Error("Same options should produce same key")
	}
	if cacheKey(opts1.WithStyle("tokyonight")) != cacheKey(opts1.WithStyle("tokyo-night")) {
		t.Error("Style aliases should share a pool")
	}
}

func TestPoolGetAndPut(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()

	renderer1, err := globalPool.get(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renderer1 == nil {
		t.Fatal("expected non-nil renderer")
	}
	if CacheSize() != 1 {
		t.Errorf("expected pool count 1, got %d", CacheSize())
	}
	globalPool.put(opts, renderer1)

	opts2 := DefaultOptions().WithWidth(100)
	renderer2, err := globalPool.get(opts2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("expected pool count 2, got %d", CacheSize())
	}
	globalPool.put(opts2, renderer2)
	globalPool.put(opts2, nil)
}

func TestPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("# Test", opts); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected pool count 1 after concurrent access, got %d", CacheSize())
	}
}

func TestCreateRendererWithInvalidStyle(t *testing.T) {
	if _, err := createRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for invalid style")
	}
}

func TestPoolGetReportsRendererError(t *testing.T) {
	ClearCache()
	defer ClearCache()

	if _, err := Markdown("hola", DefaultOptions().WithStyle("/nonexistent/style.json")); err == nil {
		t.Error("expected the style error to reach the caller")
	}
}

func TestPoolSharesAliases(t *testing.T) {
	ClearCache()
	defer ClearCache()

	r, err := globalPool.get(DefaultOptions().WithStyle("tokyo-night"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	globalPool.put(DefaultOptions().WithStyle("tokyonight"), r)

	if CacheSize() != 1 {
		t.Errorf("aliases should share one pool, got %d", CacheSize())
	}
}
