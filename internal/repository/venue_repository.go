// Package repository contains data access logic separated from HTTP handlers.
// This file defines the venue repository. Reads use the pool; writes take a
// transaction owned by the caller so several writes can form one unit.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
)

const venueColumns = `id, name, city, state, address, phone, genres, image_link,
	facebook_link, seeking_talent, seeking_description`

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sqlx.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sqlx.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// GetByID fetches a venue by its id. It returns ErrVenueNotFound if no row
// is found.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	return getVenue(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *VenueRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Venue, error) {
	return getVenue(ctx, tx, id)
}

func getVenue(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Venue, error) {
	var v model.Venue
	query := q.Rebind(`SELECT ` + venueColumns + ` FROM venues WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("querying venue %d: %w", id, err)
	}
	return &v, nil
}

// ListAll returns every venue ordered by state, city and id so venues of the
// same location are adjacent.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	var out []model.Venue
	query := `SELECT ` + venueColumns + ` FROM venues ORDER BY state, city, id`
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("listing venues: %w", err)
	}
	return out, nil
}

// SearchByName returns the venues whose name contains term, ignoring case.
// An empty term matches every venue.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]model.Venue, error) {
	var out []model.Venue
	query := r.db.Rebind(`SELECT ` + venueColumns + ` FROM venues
		WHERE LOWER(name) LIKE LOWER(?) ESCAPE '!'
		ORDER BY id`)
	if err := r.db.SelectContext(ctx, &out, query, containsPattern(term)); err != nil {
		return nil, fmt.Errorf("searching venues: %w", err)
	}
	return out, nil
}

// CreateTx inserts v using the provided transaction and sets the generated
// id on it. The caller must commit or roll back.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, genres, image_link,
		facebook_link, seeking_talent, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, tx, q,
		v.Name, v.City, v.State, v.Address, v.Phone, v.Genres, v.ImageLink,
		v.FacebookLink, v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return fmt.Errorf("inserting venue: %w", err)
	}
	v.ID = id
	return nil
}

// UpdateTx overwrites every mutable column of the venue with id v.ID. The
// row's existence is the caller's concern: MySQL reports zero affected rows
// when nothing changed, so RowsAffected cannot tell a missing row apart.
func (r *VenueRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, v *model.Venue) error {
	q := tx.Rebind(`UPDATE venues
		SET name = ?, city = ?, state = ?, address = ?, phone = ?, genres = ?,
		    image_link = ?, facebook_link = ?, seeking_talent = ?, seeking_description = ?
		WHERE id = ?`)
	if _, err := tx.ExecContext(ctx, q,
		v.Name, v.City, v.State, v.Address, v.Phone, v.Genres, v.ImageLink,
		v.FacebookLink, v.SeekingTalent, v.SeekingDescription, v.ID); err != nil {
		return fmt.Errorf("updating venue %d: %w", v.ID, err)
	}
	return nil
}

// DeleteTx removes the venue row. Dependent shows must already be gone or
// be removed by the schema cascade. Returns ErrVenueNotFound when no row
// was deleted.
func (r *VenueRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM venues WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting venue %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return ErrVenueNotFound
	}
	return nil
}
