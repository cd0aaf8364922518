package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"engagelens/internal/service"
	"engagelens/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mocks ──

type mockAuthenticator struct {
	claims   *jwt.Claims
	err      error
	gotToken string
}

func (m *mockAuthenticator) Authenticate(_ context.Context, token string) (*jwt.Claims, error) {
	m.gotToken = token
	return m.claims, m.err
}

type mockLimiter struct {
	allowed bool
	err     error
	gotKey  string
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	m.gotKey = key
	return m.allowed, m.err
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(contextKeyUsername))
}

// ── JWTAuth ──

func TestJWTAuth(t *testing.T) {
	claims := &jwt.Claims{}
	claims.Subject = "alice"

	tests := []struct {
		name     string
		header   string
		auth     *mockAuthenticator
		wantCode int
	}{
		{"缺少认证头", "", &mockAuthenticator{}, http.StatusUnauthorized},
		{"格式错误", "Token abc", &mockAuthenticator{}, http.StatusUnauthorized},
		{"空 Token", "Bearer ", &mockAuthenticator{}, http.StatusUnauthorized},
		{"无效 Token", "Bearer bad", &mockAuthenticator{err: jwt.ErrTokenInvalid}, http.StatusUnauthorized},
		{"过期 Token", "Bearer old", &mockAuthenticator{err: jwt.ErrTokenExpired}, http.StatusUnauthorized},
		{"已注销", "Bearer revoked", &mockAuthenticator{err: service.ErrTokenRevoked}, http.StatusUnauthorized},
		{"账户不存在", "Bearer ghost", &mockAuthenticator{err: service.ErrAccountNotFound}, http.StatusUnauthorized},
		{"存储未配置", "Bearer x", &mockAuthenticator{err: service.ErrStoreUnavailable}, http.StatusInternalServerError},
		{"存储故障", "Bearer x", &mockAuthenticator{err: errors.New("boom")}, http.StatusInternalServerError},
		{"通过", "Bearer good", &mockAuthenticator{claims: claims}, http.StatusOK},
		{"bearer 小写", "bearer good", &mockAuthenticator{claims: claims}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/p", JWTAuth(tt.auth), okHandler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d (%s)", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode == http.StatusOK && w.Body.String() != "alice" {
				t.Errorf("用户名未注入上下文: %q", w.Body.String())
			}
		})
	}
}

// ── RateLimit ──

func TestRateLimit_Blocks(t *testing.T) {
	limiter := &mockLimiter{allowed: false}
	r := gin.New()
	r.POST("/api/login", RateLimit(limiter, 10, time.Minute, zap.NewNop()), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/login", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Too many requests") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if !strings.HasSuffix(limiter.gotKey, ":/api/login") {
		t.Errorf("限流键应包含路由: %s", limiter.gotKey)
	}
}

func TestRateLimit_PassThrough(t *testing.T) {
	tests := []struct {
		name    string
		limiter RateLimiter
	}{
		{"允许", &mockLimiter{allowed: true}},
		{"未启用", nil},
		{"Redis 故障降级", &mockLimiter{err: errors.New("down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/login", RateLimit(tt.limiter, 10, time.Minute, zap.NewNop()), okHandler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("POST", "/api/login", nil))
			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
		})
	}
}

// ── BodyLimit ──

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/p", BodyLimit(16), func(c *gin.Context) {
		var v map[string]interface{}
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/p", strings.NewReader(`{"a":1}`)))
	if w.Code != http.StatusOK {
		t.Errorf("小请求体 expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/p", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限请求体 expected 413, got %d", w.Code)
	}
}

// ── RequestID ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("应沿用传入的 Request-ID: %q", w.Header().Get(requestIDHeader))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/p", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Errorf("过长的 Request-ID 应替换为 UUID，实际 %q", got)
	}
}

// ── CORS ──

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000/"}))
	r.GET("/p", okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/p", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检 expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("unexpected allow origin %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("未授权来源不应返回 Allow-Origin")
	}
}

// ── SecurityHeaders ──

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/p", SecurityHeaders(), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))

	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy"} {
		if w.Header().Get(h) == "" {
			t.Errorf("缺少安全头 %s", h)
		}
	}
}
