package model

import "time"

// VenueFields is the validated input for creating or editing a venue. It is
// produced by the form-binding layer; the zero value of a field is what the
// form delivers when the field is left out.
type VenueFields struct {
	Name               string
	City               string
	State              string
	Address            string
	Phone              string
	Genres             []string
	ImageLink          string
	FacebookLink       string
	SeekingTalent      bool
	SeekingDescription string
}

// ArtistFields is the validated input for creating or editing an artist.
type ArtistFields struct {
	Name               string
	City               string
	State              string
	Phone              string
	Genres             []string
	ImageLink          string
	FacebookLink       string
	SeekingVenue       bool
	SeekingDescription string
}

// ShowFields is the validated input for listing a show.
type ShowFields struct {
	ArtistID  int64
	VenueID   int64
	StartTime time.Time
}
