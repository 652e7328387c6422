package model

// Venue is a place that hosts shows. It corresponds to a row in the
// `venues` table.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Name               – display name.
//	City, State        – location; together they form the directory group.
//	Address, Phone     – contact details.
//	Genres             – ordered genre tags.
//	ImageLink          – URL of the venue picture.
//	FacebookLink       – URL of the venue page.
//	SeekingTalent      – whether the venue is looking for artists.
//	SeekingDescription – free text, meaningful only when SeekingTalent is set.
type Venue struct {
	ID                 int64  `db:"id"`                  // venues.id
	Name               string `db:"name"`                // venues.name
	City               string `db:"city"`                // venues.city
	State              string `db:"state"`               // venues.state
	Address            string `db:"address"`             // venues.address
	Phone              string `db:"phone"`               // venues.phone
	Genres             Genres `db:"genres"`              // venues.genres (JSON text)
	ImageLink          string `db:"image_link"`          // venues.image_link
	FacebookLink       string `db:"facebook_link"`       // venues.facebook_link
	SeekingTalent      bool   `db:"seeking_talent"`      // venues.seeking_talent
	SeekingDescription string `db:"seeking_description"` // venues.seeking_description
}

// Apply overwrites every mutable field of v with the values in f. Fields
// that the form left empty become empty; nothing is merged.
func (v *Venue) Apply(f VenueFields) {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.Genres = append(Genres{}, f.Genres...)
	v.ImageLink = f.ImageLink
	v.FacebookLink = f.FacebookLink
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = f.SeekingDescription
}
