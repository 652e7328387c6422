// Package service implements the directory core: derived views over venues,
// artists and shows, and the commands that change them. Every command runs
// as one transaction and reports a typed Outcome instead of an error.
package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
)

// ErrNotFound is returned by read operations when the requested entity does
// not exist.
var ErrNotFound = repository.ErrNotFound

// EventPublisher receives an event after each committed change.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.DirectoryEvent) error
}

// Directory is the data-access context for the application. It is built
// once at startup and passed to whoever needs it.
type Directory struct {
	db      *sqlx.DB
	venues  *repository.VenueRepo
	artists *repository.ArtistRepo
	shows   *repository.ShowRepo

	events EventPublisher
	now    func() time.Time
	loc    *time.Location
	log    logrus.FieldLogger
}

// Option customises a Directory.
type Option func(*Directory)

// WithClock sets the source of the current instant used to split past and
// upcoming shows.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// WithLocation sets the zone start times are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(d *Directory) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// WithPublisher sets where change events go.
func WithPublisher(p EventPublisher) Option {
	return func(d *Directory) {
		if p != nil {
			d.events = p
		}
	}
}

// WithLogger sets the logger used for best-effort side effects.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDirectory wires the repositories around db.
func NewDirectory(db *sqlx.DB, opts ...Option) *Directory {
	d := &Directory{
		db:      db,
		venues:  repository.NewVenueRepo(db),
		artists: repository.NewArtistRepo(db),
		shows:   repository.NewShowRepo(db),
		events:  queue.NopPublisher{},
		now:     time.Now,
		loc:     time.UTC,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Location returns the zone used to display and parse start times.
func (d *Directory) Location() *time.Location {
	return d.loc
}
