package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/requestctx"
)

// HeaderCorrelationID carries the id that ties a request to the events it
// causes.
const HeaderCorrelationID = "Correlation-ID"

// Correlation reads the Correlation-ID header, generating one when absent,
// and stores it on the request context with a logger tagged by it. The id
// is echoed in the response.
func Correlation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderCorrelationID)
			if id == "" {
				id = "gen_" + shortuuid.New()
			}

			ctx := requestctx.WithCorrelationID(c.Request().Context(), id)
			ctx = logging.ToContext(ctx, logrus.WithField("correlation_id", id))
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(HeaderCorrelationID, id)
			return next(c)
		}
	}
}
