package middleware

// identity.go defines helpers shared across middleware files for pulling
// the authenticated user out of the Echo context after JWTAuth ran.

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// contextUserID converts the "user_id" context value to uint64. JWT
// numeric claims decode as float64, so several representations are
// accepted.
func contextUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentUserID renders the context user as a string for rate-limit keys,
// falling back to "anon" for unauthenticated requests.
func currentUserID(c echo.Context) string {
	if id, err := contextUserID(c); err == nil && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
