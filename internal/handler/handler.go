// Package handler implements the echo HTTP endpoints. Handlers bind the
// request, delegate to services/repositories and translate application
// errors into their fixed status codes with stable machine codes.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/observability"
)

// dbTimeout bounds every store operation issued by a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fail renders an application error; anything unclassified becomes an
// opaque 500 so internal detail never leaks. The underlying cause is
// logged here with the request's correlation id, since the response
// body won't carry it.
func fail(c echo.Context, err error) error {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		ctx := c.Request().Context()
		slog.Error("internal error",
			"error", err,
			"request_id", observability.CorrelationID(ctx),
			"method", c.Request().Method,
			"path", c.Path())
	}
	body := echo.Map{"error": e.Code(), "message": e.Message}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return c.JSON(e.Status(), body)
}
