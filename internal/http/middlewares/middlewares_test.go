package middlewares

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/travellog/internal/actorctx"
	"github.com/geocoder89/travellog/internal/auth"
	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	VerifyFn func(token string) (*auth.Claims, error)
}

func (f fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	return f.VerifyFn(token)
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	return r
}

func TestRequireAuth(t *testing.T) {
	verifier := fakeVerifier{VerifyFn: func(token string) (*auth.Claims, error) {
		if token == "good" {
			return &auth.Claims{UserID: 7, Email: "a@b.io"}, nil
		}
		return nil, errors.New("bad token")
	}}

	r := newTestEngine()
	r.GET("/me", NewAuthMiddleware(verifier).RequireAuth(), func(c *gin.Context) {
		ginID, _ := UserIDFromContext(c)
		ctxID, _ := actorctx.UserIDFrom(c.Request.Context())
		if ginID != ctxID {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, "%d", ginID)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is missing"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "not a bearer token"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "not a bearer token"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "invalid or has expired"},
		{"valid token", "Bearer good", http.StatusOK, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := newTestEngine()
	r.Use(RequireJSON())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.DELETE("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	// deletes carry no body
	req = httptest.NewRequest(http.MethodDelete, "/x", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for delete, got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }

	r := newTestEngine()
	r.POST("/login", rl.Middleware(KeyByIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Fatalf("429 without Retry-After")
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: expected %d, got %d", i, want[i], codes[i])
		}
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", w.Code)
	}

	// a second later one token is back
	frozen = frozen.Add(time.Second)
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected refill after 1s, got %d", w.Code)
	}
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	r := newTestEngine()
	if err := r.SetTrustedProxies(nil); err != nil {
		t.Fatalf("SetTrustedProxies: %v", err)
	}
	r.POST("/login", rl.Middleware(KeyByIP), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for _, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("rotating X-Forwarded-For must not reset the bucket, got %v", codes)
	}
}

func TestRateLimiter_SweepsIdleClientsPeriodically(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.idleTTL = 10 * time.Minute
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }

	rl.limiterFor("a")

	now = start.Add(6 * time.Minute)
	rl.limiterFor("b")

	// idle past the TTL, but the last sweep was under idleTTL/2 ago
	now = start.Add(10*time.Minute + time.Second)
	rl.limiterFor("c")
	if _, ok := rl.clients["a"]; !ok {
		t.Fatalf("sweep ran before its interval")
	}

	now = start.Add(11 * time.Minute)
	rl.limiterFor("d")
	if _, ok := rl.clients["a"]; ok {
		t.Fatalf("idle client a should have been swept")
	}
	if len(rl.clients) != 3 {
		t.Fatalf("expected b, c, d to remain, got %d clients", len(rl.clients))
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := newTestEngine()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 64)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestRequestID_EchoesHeader(t *testing.T) {
	r := newTestEngine()
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") != "abc-123" || w.Body.String() != "abc-123" {
		t.Fatalf("request id not propagated: header=%q body=%q", w.Header().Get("X-Request-Id"), w.Body.String())
	}
}

func TestRequestID_ReplacesMalformedHeader(t *testing.T) {
	r := newTestEngine()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "bad id\nwith newline")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := w.Header().Get("X-Request-Id")
	if got == "" || strings.Contains(got, " ") {
		t.Fatalf("malformed id should be replaced, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	r := newTestEngine()
	r.Use(CORSMiddleware([]string{"https://app.example/"}))
	r.GET("/trips", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", http.MethodGet, "https://app.example", http.StatusOK, "https://app.example"},
		{"other origin", http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "https://app.example", http.StatusNoContent, "https://app.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/trips", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("allow-origin = %q, want %q", got, tt.wantAllow)
			}
			if !strings.Contains(w.Header().Get("Vary"), "Origin") {
				t.Fatalf("missing Vary: Origin")
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestEngine()
	r.Use(SecurityHeaders())
	r.GET("/trips", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/docs", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trips", nil))
	if w.Header().Get("Content-Security-Policy") != apiCSP {
		t.Fatalf("api CSP = %q", w.Header().Get("Content-Security-Policy"))
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain http")
	}

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Security-Policy") != docsCSP {
		t.Fatalf("docs CSP = %q", w.Header().Get("Content-Security-Policy"))
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS behind https proxy")
	}
}
