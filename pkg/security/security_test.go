package security

import (
	"english_admin/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/console/me", ok)
	r.GET("/api/health", ok)
	return r
}

func TestCORSOnlyEchoesAllowedOrigin(t *testing.T) {
	r := newRouter(CORS(config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:5173/"},
		ExposeHeaders:  []string{"Content-Disposition"},
	}))

	req := httptest.NewRequest(http.MethodGet, "/console/me", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))

	req = httptest.NewRequest(http.MethodOptions, "/console/me", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureDisablesCachingForConsole(t *testing.T) {
	r := newRouter(Secure())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/console/me", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestLimiterRejectsBurstButSkipsExempt(t *testing.T) {
	l := NewLimiter(config.RateLimitConfig{MaxRequests: 60, WindowMinutes: 1, Burst: 2, Exempt: []string{"/api/health"}})
	r := newRouter(l.Middleware())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/console/me", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLimiterSweepDropsIdleVisitors(t *testing.T) {
	l := NewLimiter(config.RateLimitConfig{})
	now := time.Now()
	l.now = func() time.Time { return now }
	l.Allow("10.0.0.1")

	now = now.Add(time.Hour)
	l.Allow("10.0.0.2")
	assert.Equal(t, 1, l.Sweep(10*time.Minute))
	assert.Len(t, l.visitors, 1)
}
