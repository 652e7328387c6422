// Package queue defines message payloads exchanged over the message broker
// and the code that publishes and consumes them.
package queue

// Event types published after a directory change has been committed.
const (
	TypeVenueCreated  = "venue.created"
	TypeVenueUpdated  = "venue.updated"
	TypeVenueDeleted  = "venue.deleted"
	TypeArtistCreated = "artist.created"
	TypeArtistUpdated = "artist.updated"
	TypeArtistDeleted = "artist.deleted"
	TypeShowCreated   = "show.created"
)

// DirectoryEvent is published when a venue, artist or show has been listed,
// edited or removed. It carries enough to write an activity trail without
// querying the primary database.
type DirectoryEvent struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Entity        string `json:"entity"`
	EntityID      int64  `json:"entity_id"`
	Name          string `json:"name,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
