package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/requestctx"
)

var errInvalidID = errors.New("invalid id")

// withTx runs fn in a transaction. Any error or panic rolls it back; the
// rollback error, if any, is joined to the original.
func (d *Directory) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			err = errors.Join(fmt.Errorf("panic in transaction: %v", p), tx.Rollback())
		}
	}()

	if err = fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, repository.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, errInvalidID):
		return ReasonValidation
	default:
		return ReasonPersistence
	}
}

// finish fills in the outcome's reason and, on success, publishes the
// matching event. Publishing never changes the outcome.
func (d *Directory) finish(ctx context.Context, o Outcome, err error) Outcome {
	o.Reason = classify(err)
	o.Cause = err
	if !o.OK() {
		return o
	}

	ev := queue.DirectoryEvent{
		ID:            uuid.NewString(),
		Type:          string(o.Entity) + "." + eventVerb(o.Op),
		Entity:        string(o.Entity),
		EntityID:      o.ID,
		Name:          o.Name,
		CorrelationID: requestctx.CorrelationID(ctx),
		OccurredAt:    d.now().UTC().Format(time.RFC3339),
	}
	if perr := d.events.Publish(ctx, ev); perr != nil {
		d.log.WithError(perr).WithField("event", ev.Type).Warn("publishing directory event failed")
	}
	return o
}

func eventVerb(op Op) string {
	switch op {
	case OpCreate:
		return "created"
	case OpUpdate:
		return "updated"
	default:
		return "deleted"
	}
}

// CreateVenue stores a new venue built from f.
func (d *Directory) CreateVenue(ctx context.Context, f model.VenueFields) Outcome {
	o := Outcome{Op: OpCreate, Entity: EntityVenue, Name: f.Name}
	var v model.Venue
	v.Apply(f)
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		return d.venues.CreateTx(ctx, tx, &v)
	})
	if err == nil {
		o.ID = v.ID
	}
	return d.finish(ctx, o, err)
}

// UpdateVenue overwrites every field of venue id with f.
func (d *Directory) UpdateVenue(ctx context.Context, id int64, f model.VenueFields) Outcome {
	o := Outcome{Op: OpUpdate, Entity: EntityVenue, ID: id, Name: f.Name}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		v, err := d.venues.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		v.Apply(f)
		return d.venues.UpdateTx(ctx, tx, v)
	})
	return d.finish(ctx, o, err)
}

// DeleteVenue removes venue id and every show it hosts as one unit.
func (d *Directory) DeleteVenue(ctx context.Context, id int64) Outcome {
	o := Outcome{Op: OpDelete, Entity: EntityVenue, ID: id}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		v, err := d.venues.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		o.Name = v.Name
		if _, err := d.shows.DeleteByVenueTx(ctx, tx, id); err != nil {
			return err
		}
		return d.venues.DeleteTx(ctx, tx, id)
	})
	return d.finish(ctx, o, err)
}

// CreateArtist stores a new artist built from f.
func (d *Directory) CreateArtist(ctx context.Context, f model.ArtistFields) Outcome {
	o := Outcome{Op: OpCreate, Entity: EntityArtist, Name: f.Name}
	var a model.Artist
	a.Apply(f)
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		return d.artists.CreateTx(ctx, tx, &a)
	})
	if err == nil {
		o.ID = a.ID
	}
	return d.finish(ctx, o, err)
}

// UpdateArtist overwrites every field of artist id with f.
func (d *Directory) UpdateArtist(ctx context.Context, id int64, f model.ArtistFields) Outcome {
	o := Outcome{Op: OpUpdate, Entity: EntityArtist, ID: id, Name: f.Name}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		a, err := d.artists.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		a.Apply(f)
		return d.artists.UpdateTx(ctx, tx, a)
	})
	return d.finish(ctx, o, err)
}

// DeleteArtist removes artist id and every show they play as one unit.
func (d *Directory) DeleteArtist(ctx context.Context, id int64) Outcome {
	o := Outcome{Op: OpDelete, Entity: EntityArtist, ID: id}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		a, err := d.artists.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		o.Name = a.Name
		if _, err := d.shows.DeleteByArtistTx(ctx, tx, id); err != nil {
			return err
		}
		return d.artists.DeleteTx(ctx, tx, id)
	})
	return d.finish(ctx, o, err)
}

// CreateShow schedules an artist at a venue. The store rejects references
// to a missing artist or venue and the outcome is a persistence failure.
func (d *Directory) CreateShow(ctx context.Context, f model.ShowFields) Outcome {
	o := Outcome{Op: OpCreate, Entity: EntityShow}
	if f.ArtistID <= 0 || f.VenueID <= 0 {
		return d.finish(ctx, o, fmt.Errorf("artist %d, venue %d: %w", f.ArtistID, f.VenueID, errInvalidID))
	}
	s := model.Show{
		ArtistID:  f.ArtistID,
		VenueID:   f.VenueID,
		StartTime: f.StartTime.UTC().Truncate(time.Second),
	}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		return d.shows.CreateTx(ctx, tx, &s)
	})
	if err == nil {
		o.ID = s.ID
	}
	return d.finish(ctx, o, err)
}
