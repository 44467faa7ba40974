package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/service/cache"
	"github.com/x-xyz/nftmarket/service/cache/provider"
	"github.com/x-xyz/nftmarket/service/cache/provider/primitive"
)

type cacheMiddlewareSuite struct {
	suite.Suite

	provider provider.Provider
	cache    cache.Service
}

func (s *cacheMiddlewareSuite) SetupTest() {
	s.provider = primitive.NewPrimitive(CachePfx, 1)
	s.cache = cache.New(cache.ServiceConfig{
		Ttl:   30 * time.Second,
		Pfx:   CachePfx,
		Cache: s.provider,
	})
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) TestCacheMiddleware() {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	res := "Hello, World"
	h := func(c echo.Context) error {
		return c.String(http.StatusOK, res)
	}

	c := e.NewContext(req, rec)
	cont := ctx.WithValue(ctx.Background(), "requestID", c.Response().Header().Get(echo.HeaderXRequestID))
	c.Set("ctx", cont)

	if s.NoError(CacheHttp(s.cache)(h)(c)) {
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(res, rec.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	rec2 := httptest.NewRecorder()
	res2 := "Hello, again"
	h2 := func(c echo.Context) error {
		return c.String(http.StatusOK, res2)
	}
	c2 := e.NewContext(req2, rec2)
	c2.Set("ctx", cont)

	if s.NoError(CacheHttp(s.cache)(h2)(c2)) {
		s.Equal(http.StatusOK, rec2.Code)
		s.Equal(res, rec2.Body.String())
	}

	key := generateKey(req.URL.String())
	_, _, err := s.provider.Get(cont, CachePfx+":"+key)
	s.Nil(err)
}

func (s *cacheMiddlewareSuite) TestErrorsAreNotCached() {
	e := echo.New()
	cont := ctx.Background()

	fail := func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "boom")
	}
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/fee", nil), httptest.NewRecorder())
	c.Set("ctx", cont)
	s.NoError(CacheHttp(s.cache)(fail)(c))

	rec := httptest.NewRecorder()
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, "1")
	}
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/fee", nil), rec)
	c.Set("ctx", cont)
	s.NoError(CacheHttp(s.cache)(ok)(c))
	s.Equal("1", rec.Body.String())
}
