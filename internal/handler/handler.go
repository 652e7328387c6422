// Package handler exposes the HTML pages of the directory. Handlers bind
// and validate forms, call the service and turn its outcomes into pages,
// redirects and flash messages.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/service"
)

// Handler serves every directory page from one service.
type Handler struct {
	Dir *service.Directory
}

// New returns a Handler backed by dir.
func New(dir *service.Directory) *Handler {
	return &Handler{Dir: dir}
}

// formView is the data behind the venue, artist and show forms.
type formView struct {
	ID     int64
	Form   any
	Errors map[string]string
	States []string
	Genres []string
}

func newFormView(id int64, form any, errs map[string]string) formView {
	return formView{ID: id, Form: form, Errors: errs, States: States, Genres: Genres}
}

type searchView[T any] struct {
	Term   string
	Result service.SearchResult[T]
}

func (h *Handler) render(c echo.Context, status int, name, title string, data any) error {
	return c.Render(status, name, Page{Title: title, Flash: popFlash(c), Data: data})
}

// home renders the landing page with msg shown immediately.
func (h *Handler) home(c echo.Context, msg string) error {
	flash := popFlash(c)
	if msg != "" {
		flash = append(flash, msg)
	}
	return c.Render(http.StatusOK, "pages/home", Page{Flash: flash})
}

// logOutcome records why a command failed. The cause never reaches the
// page.
func (h *Handler) logOutcome(c echo.Context, o service.Outcome) {
	if o.OK() {
		return
	}
	logging.FromContext(c.Request().Context()).
		WithError(o.Cause).
		WithField("op", o.Op).
		WithField("entity", o.Entity).
		WithField("id", o.ID).
		WithField("reason", o.Reason).
		Warn("command failed")
}

// pathID parses the :id parameter. Anything that is not a positive integer
// cannot name a record and is treated as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// lookupError maps a read failure to an HTTP error.
func lookupError(err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return echo.ErrNotFound
	}
	return err
}

// Home serves the landing page.
func (h *Handler) Home(c echo.Context) error {
	return h.home(c, "")
}
