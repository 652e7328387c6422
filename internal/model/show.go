package model

import "time"

// Show is a performance of an artist at a venue. Both foreign keys are
// mandatory; a show has no existence without its artist and venue.
//
// Fields:
//
//	ID        – primary key identifier.
//	StartTime – when the show begins, stored in UTC.
//	ArtistID  – artist performing (artists.id).
//	VenueID   – venue hosting the show (venues.id).
type Show struct {
	ID        int64     `db:"id"`         // shows.id
	StartTime time.Time `db:"start_time"` // shows.start_time
	ArtistID  int64     `db:"artist_id"`  // shows.artist_id
	VenueID   int64     `db:"venue_id"`   // shows.venue_id
}

// ShowRow is a show joined with the artist and venue it references. The
// joined columns are pointers because the rows come from LEFT JOINs: a nil
// name means the reference could not be resolved.
type ShowRow struct {
	ID              int64     `db:"id"`
	StartTime       time.Time `db:"start_time"`
	ArtistID        int64     `db:"artist_id"`
	VenueID         int64     `db:"venue_id"`
	ArtistName      *string   `db:"artist_name"`
	ArtistImageLink *string   `db:"artist_image_link"`
	VenueName       *string   `db:"venue_name"`
	VenueImageLink  *string   `db:"venue_image_link"`
}

// Resolved reports whether both the artist and the venue were found.
func (r ShowRow) Resolved() bool {
	return r.ArtistName != nil && r.VenueName != nil
}
