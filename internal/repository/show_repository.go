// Package repository contains data access logic for Show operations. A Show
// links an artist to a venue at a point in time; list queries return it
// joined with both so callers can project it without further lookups.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
)

const showRowSelect = `SELECT s.id, s.start_time, s.artist_id, s.venue_id,
	       a.name AS artist_name, a.image_link AS artist_image_link,
	       v.name AS venue_name, v.image_link AS venue_image_link
	FROM shows s
	LEFT JOIN artists a ON a.id = s.artist_id
	LEFT JOIN venues v ON v.id = s.venue_id`

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sqlx.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sqlx.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// CreateTx inserts a new show using the provided transaction. Both foreign
// keys are checked by the store; a missing artist or venue fails the insert.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (start_time, artist_id, venue_id) VALUES (?, ?, ?)`
	id, err := insertID(ctx, tx, q, s.StartTime.UTC(), s.ArtistID, s.VenueID)
	if err != nil {
		return fmt.Errorf("inserting show: %w", err)
	}
	s.ID = id
	return nil
}

// ListAll returns every show with its artist and venue, ordered by start
// time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.ShowRow, error) {
	return r.list(ctx, showRowSelect+` ORDER BY s.start_time, s.id`)
}

// ListByVenue returns the shows hosted by a venue, ordered by start time.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID int64) ([]model.ShowRow, error) {
	return r.list(ctx, showRowSelect+` WHERE s.venue_id = ? ORDER BY s.start_time, s.id`, venueID)
}

// ListByArtist returns the shows played by an artist, ordered by start time.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID int64) ([]model.ShowRow, error) {
	return r.list(ctx, showRowSelect+` WHERE s.artist_id = ? ORDER BY s.start_time, s.id`, artistID)
}

func (r *ShowRepo) list(ctx context.Context, query string, args ...any) ([]model.ShowRow, error) {
	var out []model.ShowRow
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing shows: %w", err)
	}
	for i := range out {
		out[i].StartTime = out[i].StartTime.UTC()
	}
	return out, nil
}

// DeleteByVenueTx removes every show hosted by a venue and reports how many
// rows went away.
func (r *ShowRepo) DeleteByVenueTx(ctx context.Context, tx *sqlx.Tx, venueID int64) (int64, error) {
	return deleteShows(ctx, tx, `DELETE FROM shows WHERE venue_id = ?`, venueID)
}

// DeleteByArtistTx removes every show played by an artist.
func (r *ShowRepo) DeleteByArtistTx(ctx context.Context, tx *sqlx.Tx, artistID int64) (int64, error) {
	return deleteShows(ctx, tx, `DELETE FROM shows WHERE artist_id = ?`, artistID)
}

func deleteShows(ctx context.Context, tx *sqlx.Tx, query string, id int64) (int64, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(query), id)
	if err != nil {
		return 0, fmt.Errorf("deleting shows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}

// CountAll returns the number of stored shows.
func (r *ShowRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM shows`); err != nil {
		return 0, fmt.Errorf("counting shows: %w", err)
	}
	return n, nil
}
