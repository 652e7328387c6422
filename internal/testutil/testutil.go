// Package testutil holds helpers shared by package tests: a migrated
// throwaway database and small fixtures.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/model"
)

// SetupTestDB opens a fresh SQLite database in the test's temp dir and
// applies the real migrations. The handle is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver: database.SQLite,
		Path:   filepath.Join(t.TempDir(), "fyyur_test.db"),
	})
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db), "migrating test database")
	return db
}

// InsertVenue stores v directly and returns its id.
func InsertVenue(t *testing.T, db *sqlx.DB, v model.Venue) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO venues (name, city, state, address, phone, genres, image_link,
		facebook_link, seeking_talent, seeking_description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Name, v.City, v.State, v.Address, v.Phone, v.Genres, v.ImageLink,
		v.FacebookLink, v.SeekingTalent, v.SeekingDescription)
	require.NoError(t, err, "inserting venue")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertArtist stores a directly and returns its id.
func InsertArtist(t *testing.T, db *sqlx.DB, a model.Artist) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO artists (name, city, state, phone, genres, image_link,
		facebook_link, seeking_venue, seeking_description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
		a.FacebookLink, a.SeekingVenue, a.SeekingDescription)
	require.NoError(t, err, "inserting artist")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertShow stores a show for artistID at venueID starting at start.
func InsertShow(t *testing.T, db *sqlx.DB, artistID, venueID int64, start time.Time) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO shows (start_time, artist_id, venue_id) VALUES (?, ?, ?)`,
		start.UTC(), artistID, venueID)
	require.NoError(t, err, "inserting show")
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
