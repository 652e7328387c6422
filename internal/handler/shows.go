package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Shows lists every show with its artist and venue.
func (h *Handler) Shows(c echo.Context) error {
	shows, err := h.Dir.ListShows(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/shows", "Shows", shows)
}

// NewShowForm renders an empty show form.
func (h *Handler) NewShowForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_show", "New show", newFormView(0, ShowForm{}, nil))
}

// CreateShow lists a show and reports the result on the home page.
func (h *Handler) CreateShow(c echo.Context) error {
	var form ShowForm
	errs := bindForm(c, &form)
	if errs == nil {
		fields, err := form.Fields(h.Dir.Location())
		if err != nil {
			errs = map[string]string{"start_time": err.Error()}
		} else {
			out := h.Dir.CreateShow(c.Request().Context(), fields)
			h.logOutcome(c, out)
			return h.home(c, Message(out))
		}
	}
	return h.render(c, http.StatusBadRequest, "forms/new_show", "New show", newFormView(0, form, errs))
}
