// Package router registers the HTTP routes of the directory.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/middleware"
)

// New builds the echo instance with the renderer, validator, error pages
// and middleware chain. rdb may be nil, which disables rate limiting.
func New(h *handler.Handler, rl config.RateLimitConfig, rdb *redis.Client) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewFormValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.Correlation(), middleware.RequestLog())
	e.GET("/healthz", handler.Health)

	// Rate limiting is applied to pages only so health probes never get 429.
	RegisterRoutes(e.Group("", middleware.NewTokenBucket(rl, rdb)), h)
	return e, nil
}

// RegisterRoutes maps every directory page onto g.
func RegisterRoutes(g *echo.Group, h *handler.Handler) {
	g.GET("/", h.Home)

	g.GET("/venues", h.Venues)
	g.POST("/venues/search", h.SearchVenues)
	g.GET("/venues/create", h.NewVenueForm)
	g.POST("/venues/create", h.CreateVenue)
	g.GET("/venues/:id", h.ShowVenue)
	g.GET("/venues/:id/edit", h.EditVenueForm)
	g.POST("/venues/:id/edit", h.UpdateVenue)
	g.DELETE("/venues/:id", h.DeleteVenue)
	g.POST("/venues/:id/delete", h.DeleteVenue)

	g.GET("/artists", h.Artists)
	g.POST("/artists/search", h.SearchArtists)
	g.GET("/artists/create", h.NewArtistForm)
	g.POST("/artists/create", h.CreateArtist)
	g.GET("/artists/:id", h.ShowArtist)
	g.GET("/artists/:id/edit", h.EditArtistForm)
	g.POST("/artists/:id/edit", h.UpdateArtist)
	g.DELETE("/artists/:id", h.DeleteArtist)
	g.POST("/artists/:id/delete", h.DeleteArtist)

	g.GET("/shows", h.Shows)
	g.GET("/shows/create", h.NewShowForm)
	g.POST("/shows/create", h.CreateShow)
}
