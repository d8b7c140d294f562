package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/observability"
)

// RequestID assigns each request a correlation identifier (honoring an
// inbound X-Request-ID), threads it through the request context for the
// audit log, echoes it back in the response header, and logs request
// start/end with it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cid := c.Request().Header.Get("X-Request-ID")
			if cid == "" {
				cid = observability.NewCorrelationID()
			}
			req := c.Request()
			c.SetRequest(req.WithContext(observability.WithCorrelationID(req.Context(), cid)))
			c.Response().Header().Set("X-Request-ID", cid)

			slog.Info("request", "request_id", cid, "method", req.Method, "path", req.URL.Path)
			err := next(c)
			slog.Info("response", "request_id", cid, "status", c.Response().Status)
			return err
		}
	}
}
