package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/logging"
)

// ErrorHandler renders the 404 and 500 pages. Other client errors are
// written as plain text with their status.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	var rerr error
	switch {
	case code == http.StatusNotFound:
		rerr = c.Render(code, "errors/404", Page{Title: "Not Found"})
	case code >= http.StatusInternalServerError:
		logging.FromContext(c.Request().Context()).WithError(err).Error("request failed")
		rerr = c.Render(code, "errors/500", Page{Title: "Server Error"})
	case c.Request().Method == http.MethodHead:
		rerr = c.NoContent(code)
	default:
		rerr = c.String(code, msg)
	}
	if rerr != nil {
		logging.FromContext(c.Request().Context()).WithError(rerr).Error("writing error response")
	}
}
