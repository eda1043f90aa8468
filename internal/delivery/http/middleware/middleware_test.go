package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio-booking/config"
	"studio-booking/internal/service"
	"studio-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func echoAdmin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, ActorFromContext(r.Context()))
	})
}

func newAuth(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *service.SessionService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "mw-secret", SessionMaxAge: time.Hour})
	sessions := service.NewSessionService(client, quietLogger())
	return NewAuthMiddleware(jwtService, sessions), jwtService, sessions
}

func TestAuthenticate(t *testing.T) {
	auth, jwtService, sessions := newAuth(t)
	ctx := context.Background()

	token, tokenID, err := jwtService.GenerateSessionToken("admin")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if err := sessions.Register(ctx, tokenID, time.Hour); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := auth.Authenticate(echoAdmin())

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != "admin" {
				t.Fatalf("actor = %q", rec.Body.String())
			}
		})
	}

	if err := sessions.Revoke(ctx, tokenID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session status = %d", rec.Code)
	}
}

func TestIdentifyNeverRejects(t *testing.T) {
	auth, jwtService, sessions := newAuth(t)
	token, tokenID, _ := jwtService.GenerateSessionToken("owner")
	sessions.Register(context.Background(), tokenID, time.Hour)

	handler := auth.Identify(echoAdmin())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "public" {
		t.Fatalf("anonymous: %d %q", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Body.String() != "owner" {
		t.Fatalf("identified actor = %q", rec.Body.String())
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewRateLimiter(1, 2, nil)
	handler := limiter.Limit(echoAdmin())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if send("10.0.0.1") != http.StatusOK || send("10.0.0.1") != http.StatusOK {
		t.Fatal("burst should be allowed")
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other client status = %d", code)
	}
}

func TestClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies("10.0.0.0/8, 192.0.2.7")
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "192.0.2.1:5555", "", "192.0.2.1"},
		{"untrusted peer ignores header", "192.0.2.1:5555", "203.0.113.9", "192.0.2.1"},
		{"trusted proxy", "10.1.2.3:443", "203.0.113.9", "203.0.113.9"},
		{"proxy chain", "192.0.2.7:443", "198.51.100.4, 203.0.113.9, 10.0.0.5", "203.0.113.9"},
		{"only proxies", "10.1.2.3:443", "10.0.0.5", "10.1.2.3"},
		{"garbage hop", "10.1.2.3:443", "not-an-ip", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if ip := proxies.ClientIP(req); ip != tt.want {
				t.Fatalf("ClientIP = %s, want %s", ip, tt.want)
			}
		})
	}

	if _, err := ParseTrustedProxies("10.0.0.0/33"); err == nil {
		t.Fatal("expected error for bad CIDR")
	}
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, 1, nil)
	handler := limiter.Limit(echoAdmin())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", nil)
		req.RemoteAddr = "198.51.100.20:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("rotating X-Forwarded-For bypassed the limiter: %v", codes)
	}
	if len(limiter.visitors) != 1 {
		t.Fatalf("visitors = %d, want 1", len(limiter.visitors))
	}
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(10, 1, nil)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now

	limiter.getLimiter("198.51.100.1")
	now = now.Add(visitorIdleTimeout + time.Second)
	limiter.getLimiter("198.51.100.2")

	if _, ok := limiter.visitors["198.51.100.1"]; ok {
		t.Fatal("idle visitor was not swept")
	}
	if len(limiter.visitors) != 1 {
		t.Fatalf("visitors = %d, want 1", len(limiter.visitors))
	}
}

func TestCORS(t *testing.T) {
	handler := NewCORSMiddleware("https://studio.example, https://admin.example").Handle(echoAdmin())

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "https://admin.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("preflight: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://admin.example" ||
		rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("headers: %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}
}

func TestRequestMiddlewareSetsRequestID(t *testing.T) {
	var seen string
	handler := NewRequestMiddleware(quietLogger()).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("request id %q vs header %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "fixed-id" {
		t.Fatal("incoming request id should be kept")
	}
}
