package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/service"
)

// Venues lists venues grouped by city and state.
func (h *Handler) Venues(c echo.Context) error {
	areas, err := h.Dir.GroupVenuesByLocation(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/venues", "Venues", areas)
}

// SearchVenues lists venues whose name contains the submitted term.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Dir.SearchVenues(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/search_venues", "Venues",
		searchView[service.VenueSummary]{Term: term, Result: res})
}

// ShowVenue renders one venue with its past and upcoming shows.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	detail, err := h.Dir.VenueDetail(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}
	return h.render(c, http.StatusOK, "pages/show_venue", detail.Name, detail)
}

// NewVenueForm renders an empty venue form.
func (h *Handler) NewVenueForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_venue", "New venue", newFormView(0, VenueForm{}, nil))
}

// CreateVenue lists a new venue and shows the result on the home page.
func (h *Handler) CreateVenue(c echo.Context) error {
	var form VenueForm
	if errs := bindForm(c, &form); errs != nil {
		return h.render(c, http.StatusBadRequest, "forms/new_venue", "New venue", newFormView(0, form, errs))
	}
	out := h.Dir.CreateVenue(c.Request().Context(), form.Fields())
	h.logOutcome(c, out)
	return h.home(c, Message(out))
}

// EditVenueForm renders the venue form prefilled with stored values.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.Dir.Venue(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}
	return h.render(c, http.StatusOK, "forms/edit_venue", "Edit venue", newFormView(id, VenueFormFrom(*v), nil))
}

// UpdateVenue overwrites the venue and redirects to its page.
func (h *Handler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form VenueForm
	if errs := bindForm(c, &form); errs != nil {
		return h.render(c, http.StatusBadRequest, "forms/edit_venue", "Edit venue", newFormView(id, form, errs))
	}
	out := h.Dir.UpdateVenue(c.Request().Context(), id, form.Fields())
	h.logOutcome(c, out)
	if out.Reason == service.ReasonNotFound {
		return echo.ErrNotFound
	}
	setFlash(c, Message(out))
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/venues/%d", id))
}

// DeleteVenue removes the venue and its shows, then returns home.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out := h.Dir.DeleteVenue(c.Request().Context(), id)
	h.logOutcome(c, out)
	if out.Reason == service.ReasonNotFound {
		return echo.ErrNotFound
	}
	setFlash(c, Message(out))
	if out.OK() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/venues/%d", id))
}
