package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/repository"
)

// RequireApproved gates tenant routes on the server side. A tenant whose
// application is still pending (or was never approved) gets 403 and the
// client shows the holding screen; relying on the client alone would let
// unapproved tenants hit protected endpoints directly. Landlords are
// auto-approved at registration, so their requests pass without a lookup.
func RequireApproved(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role, ok := c.Get("role").(string); ok && role == model.RoleLandlord {
				return next(c)
			}
			uid, err := contextUserID(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			approved, err := users.IsApproved(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check approval"})
			}
			if !approved {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending landlord approval"})
			}
			return next(c)
		}
	}
}
