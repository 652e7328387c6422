package model

// Artist is a performer that plays shows at venues. It corresponds to a row
// in the `artists` table. Genres uses the same ordered representation as
// Venue.
type Artist struct {
	ID                 int64  `db:"id"`                  // artists.id
	Name               string `db:"name"`                // artists.name
	City               string `db:"city"`                // artists.city
	State              string `db:"state"`               // artists.state
	Phone              string `db:"phone"`               // artists.phone
	Genres             Genres `db:"genres"`              // artists.genres (JSON text)
	ImageLink          string `db:"image_link"`          // artists.image_link
	FacebookLink       string `db:"facebook_link"`       // artists.facebook_link
	SeekingVenue       bool   `db:"seeking_venue"`       // artists.seeking_venue
	SeekingDescription string `db:"seeking_description"` // artists.seeking_description
}

// Apply overwrites every mutable field of a with the values in f.
func (a *Artist) Apply(f ArtistFields) {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.Genres = append(Genres{}, f.Genres...)
	a.ImageLink = f.ImageLink
	a.FacebookLink = f.FacebookLink
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = f.SeekingDescription
}
