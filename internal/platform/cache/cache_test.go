package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), 50*time.Millisecond)
	if got, ok := store.Get(ctx, "k"); !ok || string(got) != "v" {
		t.Fatalf("expected hit with %q, got %q ok=%v", "v", got, ok)
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := store.Get(context.Background(), "absent"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestMiddlewareCachesSecondRead(t *testing.T) {
	store := NewMemoryStore()
	e := echo.New()

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"calls": calls})
	}
	wrapped := Middleware(store, time.Minute)(handler)

	do := func() string {
		req := httptest.NewRequest(http.MethodGet, "/analytics/summary", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := wrapped(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec.Body.String()
	}

	first := do()
	second := do()

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if strings.TrimSpace(first) != strings.TrimSpace(second) {
		t.Fatalf("cached body differs: %q vs %q", first, second)
	}
}

func TestMiddlewareKeyIncludesQuery(t *testing.T) {
	store := NewMemoryStore()
	e := echo.New()

	wrapped := Middleware(store, time.Minute)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"q": c.QueryParam("q")})
	})

	do := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		if err := wrapped(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec.Body.String()
	}

	a := do("/patients?q=alpha")
	b := do("/patients?q=beta")
	if a == b {
		t.Fatal("different query strings must not share a cache entry")
	}
}

func TestMiddlewareSkipsNonGet(t *testing.T) {
	store := NewMemoryStore()
	e := echo.New()

	calls := 0
	wrapped := Middleware(store, time.Minute)(func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/chat/ask", nil)
		rec := httptest.NewRecorder()
		if err := wrapped(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("POST must bypass cache, handler ran %d times", calls)
	}
}

func TestMiddlewareSkipsErrors(t *testing.T) {
	store := NewMemoryStore()
	e := echo.New()

	wrapped := Middleware(store, time.Minute)(func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	})

	req := httptest.NewRequest(http.MethodGet, "/patients/missing", nil)
	rec := httptest.NewRecorder()
	if err := wrapped(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if _, ok := store.Get(context.Background(), cacheKey(e.NewContext(httptest.NewRequest(http.MethodGet, "/patients/missing", nil), httptest.NewRecorder()))); ok {
		t.Fatal("non-200 responses must not be cached")
	}
}
