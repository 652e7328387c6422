package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/service"
)

// Artists lists every artist.
func (h *Handler) Artists(c echo.Context) error {
	artists, err := h.Dir.ListArtists(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/artists", "Artists", artists)
}

// SearchArtists lists artists whose name contains the submitted term.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Dir.SearchArtists(c.Request().Context(), term)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "pages/search_artists", "Artists",
		searchView[service.ArtistSummary]{Term: term, Result: res})
}

// ShowArtist renders one artist with its past and upcoming shows.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	detail, err := h.Dir.ArtistDetail(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}
	return h.render(c, http.StatusOK, "pages/show_artist", detail.Name, detail)
}

// NewArtistForm renders an empty artist form.
func (h *Handler) NewArtistForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "forms/new_artist", "New artist", newFormView(0, ArtistForm{}, nil))
}

// CreateArtist lists a new artist and shows the result on the home page.
func (h *Handler) CreateArtist(c echo.Context) error {
	var form ArtistForm
	if errs := bindForm(c, &form); errs != nil {
		return h.render(c, http.StatusBadRequest, "forms/new_artist", "New artist", newFormView(0, form, errs))
	}
	out := h.Dir.CreateArtist(c.Request().Context(), form.Fields())
	h.logOutcome(c, out)
	return h.home(c, Message(out))
}

// EditArtistForm renders the artist form prefilled with stored values.
func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.Dir.Artist(c.Request().Context(), id)
	if err != nil {
		return lookupError(err)
	}
	return h.render(c, http.StatusOK, "forms/edit_artist", "Edit artist", newFormView(id, ArtistFormFrom(*v), nil))
}

// UpdateArtist overwrites the artist and redirects to its page.
func (h *Handler) UpdateArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form ArtistForm
	if errs := bindForm(c, &form); errs != nil {
		return h.render(c, http.StatusBadRequest, "forms/edit_artist", "Edit artist", newFormView(id, form, errs))
	}
	out := h.Dir.UpdateArtist(c.Request().Context(), id, form.Fields())
	h.logOutcome(c, out)
	if out.Reason == service.ReasonNotFound {
		return echo.ErrNotFound
	}
	setFlash(c, Message(out))
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", id))
}

// DeleteArtist removes the artist and their shows, then returns home.
func (h *Handler) DeleteArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out := h.Dir.DeleteArtist(c.Request().Context(), id)
	h.logOutcome(c, out)
	if out.Reason == service.ReasonNotFound {
		return echo.ErrNotFound
	}
	setFlash(c, Message(out))
	if out.OK() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", id))
}
