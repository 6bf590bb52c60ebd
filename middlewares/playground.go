// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"net/http"
	"strings"

	"dandi-server/gate"

	"github.com/labstack/echo/v4"
)

// VerifyPlaygroundMiddleware admits only callers holding a session token the
// gate accepts. The embedded candidate key is re-validated on every entry;
// passing submission once is not enough.
func VerifyPlaygroundMiddleware(g *gate.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := c.Logger()

			token := ""
			authHeader := c.Request().Header.Get("Authorization")
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				token = after
			}

			entry := g.Enter(token)
			if !entry.Unlocked {
				logger.Error("Playground session missing or invalid.")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message":  "No playground session, please submit your API key",
					"redirect": entry.Redirect,
				})
			}

			c.Set("playground_key", entry.Key)
			return next(c)
		}
	}
}
