package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRateLimitRouter(rps float64, burst int) *gin.Engine {
	r := gin.New()
	r.Use(NewRateLimiter(rate.Limit(rps), burst))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.POST("/test", ok)
	r.GET("/test", ok)
	return r
}

func send(r http.Handler, method, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/test", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	r := setupRateLimitRouter(1, 5)

	for i := 0; i < 5; i++ {
		if code := send(r, http.MethodPost, ""); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	r := setupRateLimitRouter(1, 2)

	for i := 0; i < 2; i++ {
		send(r, http.MethodPost, "")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] == "" {
		t.Fatal("expected error message in response body")
	}
}

func TestRateLimiter_ReadsAreNotLimited(t *testing.T) {
	r := setupRateLimitRouter(1, 1)

	send(r, http.MethodPost, "")
	if code := send(r, http.MethodPost, ""); code != http.StatusTooManyRequests {
		t.Fatalf("expected writes to be limited, got %d", code)
	}
	for i := 0; i < 5; i++ {
		if code := send(r, http.MethodGet, ""); code != http.StatusOK {
			t.Fatalf("read %d: expected 200, got %d", i, code)
		}
	}
}

func TestRateLimiter_DifferentIPsHaveSeparateLimits(t *testing.T) {
	r := setupRateLimitRouter(1, 1)

	send(r, http.MethodPost, "1.1.1.1:1234")
	if code := send(r, http.MethodPost, "1.1.1.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for first IP, got %d", code)
	}
	if code := send(r, http.MethodPost, "2.2.2.2:5678"); code != http.StatusOK {
		t.Fatalf("expected 200 for second IP, got %d", code)
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := &RateLimiter{visitors: make(map[string]*visitor), rps: 1, burst: 1}
	start := time.Now()

	rl.allow("1.1.1.1", start)
	rl.allow("2.2.2.2", start.Add(2*time.Minute))
	rl.evictIdle(start.Add(4 * time.Minute))

	if _, ok := rl.visitors["1.1.1.1"]; ok {
		t.Fatal("expected idle visitor to be evicted")
	}
	if _, ok := rl.visitors["2.2.2.2"]; !ok {
		t.Fatal("expected recent visitor to be kept")
	}
}
