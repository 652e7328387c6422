package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/repository"
)

// StartTimeLayout renders start times as MM/DD/YYYY, HH:MM on a 24-hour
// clock.
const StartTimeLayout = "01/02/2006, 15:04"

// VenueShow is a show as listed on its venue's page.
type VenueShow struct {
	ArtistID        int64
	ArtistName      string
	ArtistImageLink string
	StartTime       string
	Relative        string
}

// ArtistShow is a show as listed on its artist's page.
type ArtistShow struct {
	VenueID        int64
	VenueName      string
	VenueImageLink string
	StartTime      string
	Relative       string
}

// CompleteShow is a show with both ends resolved, as listed on the shows
// page.
type CompleteShow struct {
	VenueID         int64
	VenueName       string
	ArtistID        int64
	ArtistName      string
	ArtistImageLink string
	StartTime       string
	Relative        string
}

// VenueDetail is a venue with its shows split around the query instant.
type VenueDetail struct {
	model.Venue
	PastShows     []VenueShow
	UpcomingShows []VenueShow
}

// PastShowsCount is the number of past shows.
func (v VenueDetail) PastShowsCount() int { return len(v.PastShows) }

// UpcomingShowsCount is the number of upcoming shows.
func (v VenueDetail) UpcomingShowsCount() int { return len(v.UpcomingShows) }

// ArtistDetail is an artist with its shows split around the query instant.
type ArtistDetail struct {
	model.Artist
	PastShows     []ArtistShow
	UpcomingShows []ArtistShow
}

// PastShowsCount is the number of past shows.
func (a ArtistDetail) PastShowsCount() int { return len(a.PastShows) }

// UpcomingShowsCount is the number of upcoming shows.
func (a ArtistDetail) UpcomingShowsCount() int { return len(a.UpcomingShows) }

// VenueSummary is a venue as listed in directory and search pages.
type VenueSummary struct {
	ID               int64
	Name             string
	NumUpcomingShows int
}

// ArtistSummary is an artist as listed in directory and search pages.
type ArtistSummary struct {
	ID               int64
	Name             string
	NumUpcomingShows int
}

// Area groups the venues sharing one exact (city, state) pair.
type Area struct {
	City   string
	State  string
	Venues []VenueSummary
}

// Partition splits rows around now. A show starting exactly at now is in
// neither list.
func Partition(rows []model.ShowRow, now time.Time) (past, upcoming []model.ShowRow) {
	for _, r := range rows {
		switch {
		case r.StartTime.Before(now):
			past = append(past, r)
		case r.StartTime.After(now):
			upcoming = append(upcoming, r)
		}
	}
	return past, upcoming
}

// FormatStartTime renders t in loc with StartTimeLayout.
func FormatStartTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(StartTimeLayout)
}

// CompleteShowProjection builds the shows-page view of one show. It fails
// with repository.ErrDanglingShow when the artist or venue is missing.
func CompleteShowProjection(row model.ShowRow, now time.Time, loc *time.Location) (CompleteShow, error) {
	if !row.Resolved() {
		return CompleteShow{}, fmt.Errorf("show %d: %w", row.ID, repository.ErrDanglingShow)
	}
	return CompleteShow{
		VenueID:         row.VenueID,
		VenueName:       *row.VenueName,
		ArtistID:        row.ArtistID,
		ArtistName:      *row.ArtistName,
		ArtistImageLink: deref(row.ArtistImageLink),
		StartTime:       FormatStartTime(row.StartTime, loc),
		Relative:        humanize.RelTime(row.StartTime, now, "ago", "from now"),
	}, nil
}

func venueShows(rows []model.ShowRow, now time.Time, loc *time.Location) ([]VenueShow, error) {
	out := make([]VenueShow, 0, len(rows))
	for _, r := range rows {
		if r.ArtistName == nil {
			return nil, fmt.Errorf("show %d: %w", r.ID, repository.ErrDanglingShow)
		}
		out = append(out, VenueShow{
			ArtistID:        r.ArtistID,
			ArtistName:      *r.ArtistName,
			ArtistImageLink: deref(r.ArtistImageLink),
			StartTime:       FormatStartTime(r.StartTime, loc),
			Relative:        humanize.RelTime(r.StartTime, now, "ago", "from now"),
		})
	}
	return out, nil
}

func artistShows(rows []model.ShowRow, now time.Time, loc *time.Location) ([]ArtistShow, error) {
	out := make([]ArtistShow, 0, len(rows))
	for _, r := range rows {
		if r.VenueName == nil {
			return nil, fmt.Errorf("show %d: %w", r.ID, repository.ErrDanglingShow)
		}
		out = append(out, ArtistShow{
			VenueID:        r.VenueID,
			VenueName:      *r.VenueName,
			VenueImageLink: deref(r.VenueImageLink),
			StartTime:      FormatStartTime(r.StartTime, loc),
			Relative:       humanize.RelTime(r.StartTime, now, "ago", "from now"),
		})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GroupVenuesByLocation returns one Area per distinct (city, state) pair,
// each listing every venue with exactly that pair.
func (d *Directory) GroupVenuesByLocation(ctx context.Context) ([]Area, error) {
	venues, err := d.venues.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, _, err := d.upcomingCounts(ctx, d.now())
	if err != nil {
		return nil, err
	}

	type location struct{ city, state string }
	index := make(map[location]int)
	areas := []Area{}
	for _, v := range venues {
		key := location{city: v.City, state: v.State}
		i, ok := index[key]
		if !ok {
			i = len(areas)
			index[key] = i
			areas = append(areas, Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, VenueSummary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: upcoming[v.ID],
		})
	}
	return areas, nil
}

// upcomingCounts counts shows after now per venue and per artist.
func (d *Directory) upcomingCounts(ctx context.Context, now time.Time) (byVenue, byArtist map[int64]int, err error) {
	rows, err := d.shows.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	_, upcoming := Partition(rows, now)
	byVenue = make(map[int64]int)
	byArtist = make(map[int64]int)
	for _, r := range upcoming {
		byVenue[r.VenueID]++
		byArtist[r.ArtistID]++
	}
	return byVenue, byArtist, nil
}

// VenueDetail returns the venue with its past and upcoming shows.
func (d *Directory) VenueDetail(ctx context.Context, id int64) (*VenueDetail, error) {
	v, err := d.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := d.shows.ListByVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	now := d.now()
	pastRows, upcomingRows := Partition(rows, now)

	detail := &VenueDetail{Venue: *v}
	if detail.PastShows, err = venueShows(pastRows, now, d.loc); err != nil {
		return nil, err
	}
	if detail.UpcomingShows, err = venueShows(upcomingRows, now, d.loc); err != nil {
		return nil, err
	}
	return detail, nil
}

// ArtistDetail returns the artist with its past and upcoming shows.
func (d *Directory) ArtistDetail(ctx context.Context, id int64) (*ArtistDetail, error) {
	a, err := d.artists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := d.shows.ListByArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	now := d.now()
	pastRows, upcomingRows := Partition(rows, now)

	detail := &ArtistDetail{Artist: *a}
	if detail.PastShows, err = artistShows(pastRows, now, d.loc); err != nil {
		return nil, err
	}
	if detail.UpcomingShows, err = artistShows(upcomingRows, now, d.loc); err != nil {
		return nil, err
	}
	return detail, nil
}

// Venue returns the stored venue, for prefilling the edit form.
func (d *Directory) Venue(ctx context.Context, id int64) (*model.Venue, error) {
	return d.venues.GetByID(ctx, id)
}

// Artist returns the stored artist, for prefilling the edit form.
func (d *Directory) Artist(ctx context.Context, id int64) (*model.Artist, error) {
	return d.artists.GetByID(ctx, id)
}

// ListArtists returns every artist.
func (d *Directory) ListArtists(ctx context.Context) ([]ArtistSummary, error) {
	artists, err := d.artists.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	_, upcoming, err := d.upcomingCounts(ctx, d.now())
	if err != nil {
		return nil, err
	}
	out := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, ArtistSummary{ID: a.ID, Name: a.Name, NumUpcomingShows: upcoming[a.ID]})
	}
	return out, nil
}

// ListShows returns every show with its artist and venue resolved.
func (d *Directory) ListShows(ctx context.Context) ([]CompleteShow, error) {
	rows, err := d.shows.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := d.now()
	out := make([]CompleteShow, 0, len(rows))
	for _, r := range rows {
		cs, err := CompleteShowProjection(r, now, d.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}
