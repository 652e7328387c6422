package service

import "context"

// SearchResult is the answer to a name search. Count always equals
// len(Items).
type SearchResult[T any] struct {
	Count int
	Items []T
}

func newSearchResult[T any](items []T) SearchResult[T] {
	return SearchResult[T]{Count: len(items), Items: items}
}

// SearchVenues returns the venues whose name contains term, ignoring case.
// An empty term matches every venue.
func (d *Directory) SearchVenues(ctx context.Context, term string) (SearchResult[VenueSummary], error) {
	venues, err := d.venues.SearchByName(ctx, term)
	if err != nil {
		return SearchResult[VenueSummary]{}, err
	}
	upcoming, _, err := d.upcomingCounts(ctx, d.now())
	if err != nil {
		return SearchResult[VenueSummary]{}, err
	}
	items := make([]VenueSummary, 0, len(venues))
	for _, v := range venues {
		items = append(items, VenueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: upcoming[v.ID]})
	}
	return newSearchResult(items), nil
}

// SearchArtists returns the artists whose name contains term, ignoring case.
func (d *Directory) SearchArtists(ctx context.Context, term string) (SearchResult[ArtistSummary], error) {
	artists, err := d.artists.SearchByName(ctx, term)
	if err != nil {
		return SearchResult[ArtistSummary]{}, err
	}
	_, upcoming, err := d.upcomingCounts(ctx, d.now())
	if err != nil {
		return SearchResult[ArtistSummary]{}, err
	}
	items := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		items = append(items, ArtistSummary{ID: a.ID, Name: a.Name, NumUpcomingShows: upcoming[a.ID]})
	}
	return newSearchResult(items), nil
}
