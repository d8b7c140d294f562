package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/observability/metrics"
)

// HTTPMetrics records request counts and latency per route. The route
// template (not the raw URL) is the path label to keep cardinality
// bounded.
func HTTPMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
