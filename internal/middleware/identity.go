package middleware

// identity.go holds the helper shared by the cache and rate-limit
// middleware for attributing a request to a user. Cache keys and rate
// buckets are always partitioned per user because every API resource is
// tenant-scoped.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// identityKey renders the authenticated user stored by JWTAuth as a
// stable key fragment. Unauthenticated requests map to "guest".
func identityKey(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case uint64:
		return fmt.Sprintf("u%d", t)
	case int64:
		return fmt.Sprintf("u%d", t)
	case float64:
		// JWT numeric claims decode as float64.
		return fmt.Sprintf("u%d", uint64(t))
	case string:
		if t != "" {
			return "u" + t
		}
	}
	return "guest"
}
