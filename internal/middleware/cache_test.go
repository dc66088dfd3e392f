package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshaychdev/RESTapi-app-series/internal/config"
)

func cacheCtx(uid any, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/series")
	if uid != nil {
		c.Set("user_id", uid)
	}
	return c
}

func TestCacheKey_DiffersPerUser(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	a := cacheKeyFrom(cfg, cacheCtx(float64(1), "/v1/series"))
	b := cacheKeyFrom(cfg, cacheCtx(float64(2), "/v1/series"))
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "cache:u1:")
	assert.Contains(t, b, "cache:u2:")
}

func TestCacheKey_DiffersPerQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	a := cacheKeyFrom(cfg, cacheCtx(float64(1), "/v1/series?page=1"))
	b := cacheKeyFrom(cfg, cacheCtx(float64(1), "/v1/series?page=2"))
	assert.NotEqual(t, a, b)
}

func TestIdentityKey_Unauthenticated(t *testing.T) {
	c := cacheCtx(nil, "/v1/series")
	assert.Equal(t, "guest", identityKey(c))
}

func TestIdentityKey_Types(t *testing.T) {
	assert.Equal(t, "u7", identityKey(cacheCtx(uint64(7), "/")))
	assert.Equal(t, "u7", identityKey(cacheCtx(float64(7), "/")))
	assert.Equal(t, "u7", identityKey(cacheCtx("7", "/")))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	body := []byte(`{"id":1}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, echo.MIMEApplicationJSON, gotHdr.Get(echo.HeaderContentType))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_Truncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
}

func TestRedisCache_DisabledPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: false}
	mw := NewRedisCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error { called = true; return c.NoContent(http.StatusOK) })(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
