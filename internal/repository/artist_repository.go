package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
)

const artistColumns = `id, name, city, state, phone, genres, image_link,
	facebook_link, seeking_venue, seeking_description`

// ArtistRepo encapsulates all database queries related to artists.
type ArtistRepo struct {
	db *sqlx.DB
}

// NewArtistRepo constructs an ArtistRepo with the provided DB handle.
func NewArtistRepo(db *sqlx.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

// GetByID fetches an artist by id or returns ErrArtistNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	return getArtist(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *ArtistRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Artist, error) {
	return getArtist(ctx, tx, id)
}

func getArtist(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Artist, error) {
	var a model.Artist
	query := q.Rebind(`SELECT ` + artistColumns + ` FROM artists WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("querying artist %d: %w", id, err)
	}
	return &a, nil
}

// ListAll returns every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	var out []model.Artist
	if err := r.db.SelectContext(ctx, &out, `SELECT `+artistColumns+` FROM artists ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing artists: %w", err)
	}
	return out, nil
}

// SearchByName returns the artists whose name contains term, ignoring case.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]model.Artist, error) {
	var out []model.Artist
	query := r.db.Rebind(`SELECT ` + artistColumns + ` FROM artists
		WHERE LOWER(name) LIKE LOWER(?) ESCAPE '!'
		ORDER BY id`)
	if err := r.db.SelectContext(ctx, &out, query, containsPattern(term)); err != nil {
		return nil, fmt.Errorf("searching artists: %w", err)
	}
	return out, nil
}

// CreateTx inserts a using the provided transaction and sets its id.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link,
		facebook_link, seeking_venue, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, tx, q,
		a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
		a.FacebookLink, a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return fmt.Errorf("inserting artist: %w", err)
	}
	a.ID = id
	return nil
}

// UpdateTx overwrites every mutable column of the artist with id a.ID.
func (r *ArtistRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, a *model.Artist) error {
	q := tx.Rebind(`UPDATE artists
		SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?,
		    facebook_link = ?, seeking_venue = ?, seeking_description = ?
		WHERE id = ?`)
	if _, err := tx.ExecContext(ctx, q,
		a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
		a.FacebookLink, a.SeekingVenue, a.SeekingDescription, a.ID); err != nil {
		return fmt.Errorf("updating artist %d: %w", a.ID, err)
	}
	return nil
}

// DeleteTx removes the artist row or returns ErrArtistNotFound.
func (r *ArtistRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM artists WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting artist %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return ErrArtistNotFound
	}
	return nil
}
