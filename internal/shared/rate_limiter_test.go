package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RateLimiterSuite struct {
	suite.Suite
	Limiter *RateLimiter
	Router  *gin.Engine
}

func (s *RateLimiterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.Limiter = NewRateLimiter(zap.NewNop(), nil)

	router := gin.New()
	router.Use(s.Limiter.RateLimitMiddleware())
	router.POST("/signup", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	router.GET("/api/lists", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	s.Router = router
}

func TestRateLimiterSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(RateLimiterSuite))
}

func (s *RateLimiterSuite) do(method, path, ip string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", ip)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *RateLimiterSuite) TestSignupLimitPerIP() {
	for i := 0; i < 5; i++ {
		rr := s.do("POST", "/signup", "10.0.0.1")
		Expect(rr.Code).To(Equal(http.StatusCreated))
	}

	rr := s.do("POST", "/signup", "10.0.0.1")
	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))

	// Another client is unaffected.
	rr = s.do("POST", "/signup", "10.0.0.2")
	Expect(rr.Code).To(Equal(http.StatusCreated))
}

func (s *RateLimiterSuite) TestRateLimitHeaders() {
	rr := s.do("POST", "/signup", "10.0.0.1")

	Expect(rr.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
	Expect(rr.Header().Get("X-RateLimit-Remaining")).To(Equal("4"))
	Expect(rr.Header().Get("X-RateLimit-Reset")).NotTo(BeEmpty())

	rr = s.do("POST", "/signup", "10.0.0.1")
	Expect(rr.Header().Get("X-RateLimit-Remaining")).To(Equal("3"))
}

func (s *RateLimiterSuite) TestWindowReset() {
	s.Limiter.SetConfig("POST /signup", RateLimitEndpointConfig{
		Requests: 1,
		Window:   10 * time.Millisecond,
		KeyFunc:  GetClientIP,
	})

	rr := s.do("POST", "/signup", "10.0.0.1")
	Expect(rr.Code).To(Equal(http.StatusCreated))

	rr = s.do("POST", "/signup", "10.0.0.1")
	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))

	time.Sleep(15 * time.Millisecond)

	rr = s.do("POST", "/signup", "10.0.0.1")
	Expect(rr.Code).To(Equal(http.StatusCreated))
}

func (s *RateLimiterSuite) TestAuthenticatedKeyPerUser() {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("x-user-id", int64(7))
	})
	router.Use(s.Limiter.RateLimitMiddleware())
	router.GET("/api/lists", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	s.Limiter.SetConfig("GET /api/lists", RateLimitEndpointConfig{
		Requests: 2,
		Window:   time.Minute,
		KeyFunc:  getUserID,
	})

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", "/api/lists", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		Expect(rr.Code).To(Equal(http.StatusOK))
	}

	req, _ := http.NewRequest("GET", "/api/lists", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))
}

func (s *RateLimiterSuite) TestNormalizePathSharesBucket() {
	normalized := s.Limiter.normalizePath("/api/todos/4f2c7d6a-1111-2222-3333-444455556666")

	Expect(normalized).To(Equal("/api/todos/:uuid"))

	// Fixed segments are left alone.
	Expect(s.Limiter.normalizePath("/api/todos/search")).To(Equal("/api/todos/search"))
	Expect(s.Limiter.normalizePath("/api/lists/reorder")).To(Equal("/api/lists/reorder"))
}

func (s *RateLimiterSuite) TestStats() {
	s.do("POST", "/signup", "10.0.0.1")

	stats := s.Limiter.GetStats()

	Expect(stats["active_entries"]).To(Equal(1))
}
