package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := newIPRateLimiter(rate.Every(time.Hour), 2)
	router := gin.New()
	router.GET("/limited", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/limited", nil)
		req.RemoteAddr = ip + ":12345"
		router.ServeHTTP(w, req)
		return w.Code
	}

	// burst of 2 per IP, then throttled
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// a different IP has its own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}
