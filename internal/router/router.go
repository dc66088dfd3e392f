// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Akshaychdev/RESTapi-app-series/internal/config"
	"github.com/Akshaychdev/RESTapi-app-series/internal/handler"
	"github.com/Akshaychdev/RESTapi-app-series/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; logout also accepts a
// refresh token without a valid access token, so it stays outside the JWT
// middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
}

// RegisterAPI registers the protected resources under /v1. The JWT
// middleware runs first; the redis-backed rate limiter and per-user
// response cache follow so both can key on the authenticated user. Both
// degrade to no-ops when rdb is nil.
func RegisterAPI(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	a *handler.AuthHandler, s *handler.SeriesHandler, t *handler.TagHandler, ch *handler.CharacterHandler) {

	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	api.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	api.GET("/me", a.Me)

	api.GET("/series", s.List)
	api.POST("/series", s.Create)
	api.GET("/series/:id", s.Get)
	api.PUT("/series/:id", s.Put)
	api.PATCH("/series/:id", s.Patch)
	api.DELETE("/series/:id", s.Delete)

	api.GET("/tags", t.List)
	api.POST("/tags", t.Create)
	api.GET("/tags/:id", t.Get)
	api.PUT("/tags/:id", t.Update)
	api.PATCH("/tags/:id", t.Update)
	api.DELETE("/tags/:id", t.Delete)

	api.GET("/characters", ch.List)
	api.POST("/characters", ch.Create)
	api.GET("/characters/:id", ch.Get)
	api.PUT("/characters/:id", ch.Update)
	api.PATCH("/characters/:id", ch.Update)
	api.DELETE("/characters/:id", ch.Delete)
}
