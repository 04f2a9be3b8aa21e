package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/photogur/photogur/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// --- 测试 IP 限流中间件 ---

func newRateLimitRouter(rl *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(web.Templates())
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewIPRateLimiter(1, 3, time.Minute)
	defer rl.StopCleanup()
	router := newRateLimitRouter(rl)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// 超过桶容量被拒
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterConcurrentSameIP(t *testing.T) {
	rl := NewIPRateLimiter(1000, 1000, time.Minute)
	defer rl.StopCleanup()
	router := newRateLimitRouter(rl)

	// 同一 IP 并发请求与清理 goroutine 同时读写 lastSeen
	const workers = 8
	const perWorker = 20
	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
				if w.Code == http.StatusOK {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers*perWorker), allowed.Load())
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	rl := NewIPRateLimiter(1, 1, time.Minute)
	defer rl.StopCleanup()
	router := newRateLimitRouter(rl)

	first := httptest.NewRequest(http.MethodGet, "/ping", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// 第一个客户端已耗尽配额
	again := httptest.NewRequest(http.MethodGet, "/ping", nil)
	again.Header.Set("X-Forwarded-For", "10.0.0.1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, again)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 其他客户端不受影响
	other := httptest.NewRequest(http.MethodGet, "/ping", nil)
	other.Header.Set("X-Forwarded-For", "10.0.0.2")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}
