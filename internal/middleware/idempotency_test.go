package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MorseWayne/storefront/internal/kvstore"
)

func setupIdempotencyRouter(store kvstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Idempotency(store))
	router.POST("/items", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/items", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestIdempotency_DuplicateKeyRejected(t *testing.T) {
	router := setupIdempotencyRouter(kvstore.NewMemoryStore())

	first := httptest.NewRequest(http.MethodPost, "/items", nil)
	first.Header.Set("X-Idempotency-Key", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/items", nil)
	second.Header.Set("X-Idempotency-Key", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate request status = %d, want 409", w.Code)
	}
}

func TestIdempotency_DistinctKeysPass(t *testing.T) {
	router := setupIdempotencyRouter(kvstore.NewMemoryStore())

	for _, key := range []string{"k1", "k2"} {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		req.Header.Set("X-Idempotency-Key", key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("request with key %q status = %d, want 200", key, w.Code)
		}
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	router := setupIdempotencyRouter(kvstore.NewMemoryStore())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestIdempotency_SkipsGET(t *testing.T) {
	router := setupIdempotencyRouter(kvstore.NewMemoryStore())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("X-Idempotency-Key", "same-key")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %d status = %d, want 200 (reads are never deduplicated)", i+1, w.Code)
		}
	}
}

func TestIdempotency_NullStoreFailsOpen(t *testing.T) {
	// The null store always reports the key as fresh, so everything
	// passes; idempotency degrades to best effort.
	router := setupIdempotencyRouter(kvstore.NewNullStore())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		req.Header.Set("X-Idempotency-Key", "same-key")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
}
