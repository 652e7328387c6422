package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/requestctx"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/testutil"
)

var refNow = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.DirectoryEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.DirectoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newDirectory(t *testing.T, opts ...service.Option) (*service.Directory, *recordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	base := []service.Option{
		service.WithClock(func() time.Time { return refNow }),
		service.WithPublisher(pub),
	}
	return service.NewDirectory(db, append(base, opts...)...), pub
}

func TestGroupVenuesByLocation_ExactPairs(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db, service.WithClock(func() time.Time { return refNow }))

	hop := testutil.InsertVenue(t, db, model.Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA"})
	park := testutil.InsertVenue(t, db, model.Venue{Name: "Park Square", City: "San Francisco", State: "CA"})
	testutil.InsertVenue(t, db, model.Venue{Name: "Dueling Pianos", City: "New York", State: "NY"})
	testutil.InsertVenue(t, db, model.Venue{Name: "Lower", City: "san francisco", State: "CA"})

	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Guns N Petals"})
	testutil.InsertShow(t, db, artist, hop, refNow.Add(24*time.Hour))
	testutil.InsertShow(t, db, artist, hop, refNow.Add(-24*time.Hour))

	areas, err := d.GroupVenuesByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 3)

	total := 0
	for _, a := range areas {
		total += len(a.Venues)
		if a.City == "San Francisco" && a.State == "CA" {
			require.Len(t, a.Venues, 2)
			assert.Equal(t, hop, a.Venues[0].ID)
			assert.Equal(t, 1, a.Venues[0].NumUpcomingShows)
			assert.Equal(t, park, a.Venues[1].ID)
			assert.Zero(t, a.Venues[1].NumUpcomingShows)
		}
	}
	assert.Equal(t, 4, total)
}

func TestGroupVenuesByLocation_Empty(t *testing.T) {
	d, _ := newDirectory(t)
	areas, err := d.GroupVenuesByLocation(context.Background())
	require.NoError(t, err)
	assert.Empty(t, areas)
}

func TestPartition_Boundary(t *testing.T) {
	rows := []model.ShowRow{
		{ID: 1, StartTime: refNow.Add(-time.Second)},
		{ID: 2, StartTime: refNow},
		{ID: 3, StartTime: refNow.Add(time.Second)},
	}
	past, upcoming := service.Partition(rows, refNow)
	require.Len(t, past, 1)
	require.Len(t, upcoming, 1)
	assert.Equal(t, int64(1), past[0].ID)
	assert.Equal(t, int64(3), upcoming[0].ID)
}

func TestVenueDetail_PastAndUpcoming(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db, service.WithClock(func() time.Time { return refNow }))

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "The Musical Hop", Genres: model.Genres{"Jazz", "Swing"}})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Guns N Petals", ImageLink: "https://img/gnp.jpg"})
	testutil.InsertShow(t, db, artist, venue, time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC))
	testutil.InsertShow(t, db, artist, venue, refNow)
	testutil.InsertShow(t, db, artist, venue, time.Date(2035, 4, 1, 9, 5, 0, 0, time.UTC))
	testutil.InsertShow(t, db, artist, venue, time.Date(2035, 4, 8, 20, 0, 0, 0, time.UTC))

	detail, err := d.VenueDetail(ctx, venue)
	require.NoError(t, err)
	assert.Equal(t, "The Musical Hop", detail.Name)
	assert.Equal(t, model.Genres{"Jazz", "Swing"}, detail.Genres)

	require.Len(t, detail.PastShows, 1)
	assert.Equal(t, "05/21/2019, 21:30", detail.PastShows[0].StartTime)
	assert.Equal(t, "Guns N Petals", detail.PastShows[0].ArtistName)
	assert.Equal(t, "https://img/gnp.jpg", detail.PastShows[0].ArtistImageLink)

	require.Len(t, detail.UpcomingShows, 2)
	assert.Equal(t, "04/01/2035, 09:05", detail.UpcomingShows[0].StartTime)
	assert.Equal(t, len(detail.PastShows), detail.PastShowsCount())
	assert.Equal(t, len(detail.UpcomingShows), detail.UpcomingShowsCount())
}

func TestVenueDetail_NotFound(t *testing.T) {
	d, _ := newDirectory(t)
	_, err := d.VenueDetail(context.Background(), 42)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestArtistDetail_DisplayLocation(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	loc := time.FixedZone("UTC-7", -7*60*60)
	d := service.NewDirectory(db,
		service.WithClock(func() time.Time { return refNow }),
		service.WithLocation(loc))

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Park Square", ImageLink: "https://img/park.jpg"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Matt Quevedo"})
	testutil.InsertShow(t, db, artist, venue, time.Date(2035, 6, 15, 23, 0, 0, 0, time.UTC))

	detail, err := d.ArtistDetail(ctx, artist)
	require.NoError(t, err)
	assert.Zero(t, detail.PastShowsCount())
	require.Equal(t, 1, detail.UpcomingShowsCount())
	assert.Equal(t, "Park Square", detail.UpcomingShows[0].VenueName)
	assert.Equal(t, "https://img/park.jpg", detail.UpcomingShows[0].VenueImageLink)
	assert.Equal(t, "06/15/2035, 16:00", detail.UpcomingShows[0].StartTime)
	assert.Equal(t, loc, d.Location())
}

func TestCompleteShowProjection_Dangling(t *testing.T) {
	name := "The Mill"
	row := model.ShowRow{ID: 1, StartTime: refNow, VenueName: &name}
	_, err := service.CompleteShowProjection(row, refNow, time.UTC)
	require.Error(t, err)
}

func TestListShows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db, service.WithClock(func() time.Time { return refNow }))

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "The Dueling Pianos Bar"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "The Wild Sax Band", ImageLink: "https://img/sax.jpg"})
	testutil.InsertShow(t, db, artist, venue, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC))

	shows, err := d.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, service.CompleteShow{
		VenueID:         venue,
		VenueName:       "The Dueling Pianos Bar",
		ArtistID:        artist,
		ArtistName:      "The Wild Sax Band",
		ArtistImageLink: "https://img/sax.jpg",
		StartTime:       "04/01/2035, 20:00",
		Relative:        shows[0].Relative,
	}, shows[0])
	assert.Contains(t, shows[0].Relative, "from now")
}

func TestListArtists(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db, service.WithClock(func() time.Time { return refNow }))
	testutil.InsertArtist(t, db, model.Artist{Name: "A"})
	testutil.InsertArtist(t, db, model.Artist{Name: "B"})

	artists, err := d.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "A", artists[0].Name)
}

func TestSearchVenues(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)
	testutil.InsertVenue(t, db, model.Venue{Name: "ABC Hall"})
	testutil.InsertVenue(t, db, model.Venue{Name: "the abc"})
	testutil.InsertVenue(t, db, model.Venue{Name: "Park Square"})

	all, err := d.SearchVenues(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count)
	assert.Len(t, all.Items, all.Count)

	abc, err := d.SearchVenues(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, 2, abc.Count)
	assert.Equal(t, "ABC Hall", abc.Items[0].Name)
	assert.Equal(t, "the abc", abc.Items[1].Name)

	none, err := d.SearchVenues(ctx, "zzz")
	require.NoError(t, err)
	assert.Zero(t, none.Count)
	assert.Empty(t, none.Items)
}

func TestSearchArtists(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)
	testutil.InsertArtist(t, db, model.Artist{Name: "Guns N Petals"})
	testutil.InsertArtist(t, db, model.Artist{Name: "Matt Quevedo"})
	testutil.InsertArtist(t, db, model.Artist{Name: "The Wild Sax Band"})

	res, err := d.SearchArtists(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	res, err = d.SearchArtists(ctx, "band")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "The Wild Sax Band", res.Items[0].Name)
}

func TestCreateVenue_TheMill(t *testing.T) {
	ctx := requestctx.WithCorrelationID(context.Background(), "gen_test")
	d, pub := newDirectory(t)

	out := d.CreateVenue(ctx, model.VenueFields{
		Name:   "The Mill",
		City:   "Austin",
		State:  "TX",
		Genres: []string{"Folk", "Jazz"},
	})
	require.True(t, out.OK(), "cause: %v", out.Cause)
	assert.Equal(t, service.OpCreate, out.Op)
	assert.Equal(t, service.EntityVenue, out.Entity)
	assert.Equal(t, "The Mill", out.Name)
	require.NotZero(t, out.ID)

	areas, err := d.GroupVenuesByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "Austin", areas[0].City)
	assert.Equal(t, "TX", areas[0].State)
	require.Len(t, areas[0].Venues, 1)
	assert.Equal(t, "The Mill", areas[0].Venues[0].Name)

	detail, err := d.VenueDetail(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Genres{"Folk", "Jazz"}, detail.Genres)
	assert.Zero(t, detail.PastShowsCount())
	assert.Zero(t, detail.UpcomingShowsCount())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, queue.TypeVenueCreated, ev.Type)
	assert.Equal(t, out.ID, ev.EntityID)
	assert.Equal(t, "gen_test", ev.CorrelationID)
	assert.NotEmpty(t, ev.ID)
}

func TestCreateVenue_PublishFailureKeepsOutcome(t *testing.T) {
	d, pub := newDirectory(t)
	pub.err = errors.New("broker down")

	out := d.CreateVenue(context.Background(), model.VenueFields{Name: "Quiet"})
	assert.True(t, out.OK())
	assert.Len(t, pub.events, 1)
}

func TestUpdateVenue_OmittedCheckboxClearsSeekingTalent(t *testing.T) {
	ctx := context.Background()
	d, _ := newDirectory(t)

	created := d.CreateVenue(ctx, model.VenueFields{
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		SeekingTalent:      true,
		SeekingDescription: "Looking for local artists",
	})
	require.True(t, created.OK())

	out := d.UpdateVenue(ctx, created.ID, model.VenueFields{Name: "The Musical Hop", City: "San Francisco", State: "CA"})
	require.True(t, out.OK(), "cause: %v", out.Cause)

	v, err := d.Venue(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, v.SeekingTalent)
	assert.Empty(t, v.SeekingDescription)
	assert.Empty(t, v.Genres)
}

func TestUpdateVenue_NotFound(t *testing.T) {
	d, pub := newDirectory(t)
	out := d.UpdateVenue(context.Background(), 404, model.VenueFields{Name: "Ghost"})
	assert.Equal(t, service.ReasonNotFound, out.Reason)
	assert.ErrorIs(t, out.Cause, service.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestUpdateArtist(t *testing.T) {
	ctx := context.Background()
	d, pub := newDirectory(t)

	created := d.CreateArtist(ctx, model.ArtistFields{Name: "Matt", SeekingVenue: true, Genres: []string{"Jazz"}})
	require.True(t, created.OK())

	out := d.UpdateArtist(ctx, created.ID, model.ArtistFields{Name: "Matt Quevedo", Genres: []string{"Rock n Roll", "Jazz"}})
	require.True(t, out.OK(), "cause: %v", out.Cause)

	a, err := d.Artist(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Matt Quevedo", a.Name)
	assert.False(t, a.SeekingVenue)
	assert.Equal(t, model.Genres{"Rock n Roll", "Jazz"}, a.Genres)

	require.Len(t, pub.events, 2)
	assert.Equal(t, queue.TypeArtistUpdated, pub.events[1].Type)

	missing := d.UpdateArtist(ctx, 999, model.ArtistFields{Name: "x"})
	assert.Equal(t, service.ReasonNotFound, missing.Reason)
}

func TestDeleteVenue_CascadesShows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	d := service.NewDirectory(db, service.WithPublisher(pub))

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Doomed"})
	other := testutil.InsertVenue(t, db, model.Venue{Name: "Survivor"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Band"})
	testutil.InsertShow(t, db, artist, venue, refNow)
	testutil.InsertShow(t, db, artist, venue, refNow.Add(time.Hour))
	testutil.InsertShow(t, db, artist, other, refNow)

	out := d.DeleteVenue(ctx, venue)
	require.True(t, out.OK(), "cause: %v", out.Cause)
	assert.Equal(t, "Doomed", out.Name)

	_, err := d.VenueDetail(ctx, venue)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, 1, testutil.CountRows(t, db, "shows"))
	assert.Equal(t, 1, testutil.CountRows(t, db, "venues"))
	assert.Equal(t, 1, testutil.CountRows(t, db, "artists"))

	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.TypeVenueDeleted, pub.events[0].Type)
}

func TestDeleteVenue_Missing(t *testing.T) {
	d, pub := newDirectory(t)
	out := d.DeleteVenue(context.Background(), 7)
	assert.Equal(t, service.ReasonNotFound, out.Reason)
	assert.False(t, out.OK())
	assert.Empty(t, pub.events)
}

func TestDeleteArtist_CascadesShows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Hall"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Leaving"})
	testutil.InsertShow(t, db, artist, venue, refNow)

	out := d.DeleteArtist(ctx, artist)
	require.True(t, out.OK(), "cause: %v", out.Cause)
	assert.Zero(t, testutil.CountRows(t, db, "shows"))
	assert.Zero(t, testutil.CountRows(t, db, "artists"))
	assert.Equal(t, 1, testutil.CountRows(t, db, "venues"))
}

func TestCreateShow(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db, service.WithClock(func() time.Time { return refNow }))

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Hall"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Band"})

	start := time.Date(2035, 1, 2, 3, 4, 5, 999, time.FixedZone("CET", 3600))
	out := d.CreateShow(ctx, model.ShowFields{ArtistID: artist, VenueID: venue, StartTime: start})
	require.True(t, out.OK(), "cause: %v", out.Cause)
	assert.Equal(t, service.EntityShow, out.Entity)

	detail, err := d.VenueDetail(ctx, venue)
	require.NoError(t, err)
	require.Equal(t, 1, detail.UpcomingShowsCount())
	assert.Equal(t, "01/02/2035, 02:04", detail.UpcomingShows[0].StartTime)
}

func TestCreateShow_MissingArtistIsPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	d := service.NewDirectory(db, service.WithPublisher(pub))
	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Hall"})

	out := d.CreateShow(ctx, model.ShowFields{ArtistID: 999, VenueID: venue, StartTime: refNow})
	assert.Equal(t, service.ReasonPersistence, out.Reason)
	assert.Error(t, out.Cause)
	assert.Zero(t, testutil.CountRows(t, db, "shows"))
	assert.Empty(t, pub.events)
}

func TestCreateShow_RejectsZeroIDs(t *testing.T) {
	d, _ := newDirectory(t)
	out := d.CreateShow(context.Background(), model.ShowFields{StartTime: refNow})
	assert.Equal(t, service.ReasonValidation, out.Reason)
}

func TestSearchVenues_NonASCIICase(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)
	testutil.InsertVenue(t, db, model.Venue{Name: "CAFÉ ÉTOILE"})

	res, err := d.SearchVenues(ctx, "café")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "CAFÉ ÉTOILE", res.Items[0].Name)
}

func installTrigger(t *testing.T, db *sqlx.DB, ddl string) {
	t.Helper()
	_, err := db.Exec(ddl)
	require.NoError(t, err, "installing trigger")
}

func TestDeleteVenue_FailureRollsBackShows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	d := service.NewDirectory(db, service.WithPublisher(pub))

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Locked"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Band"})
	testutil.InsertShow(t, db, artist, venue, refNow)
	installTrigger(t, db, `CREATE TRIGGER venues_no_delete BEFORE DELETE ON venues
		BEGIN SELECT RAISE(ABORT, 'venue is locked'); END`)

	out := d.DeleteVenue(ctx, venue)
	assert.Equal(t, service.ReasonPersistence, out.Reason)
	require.Error(t, out.Cause)
	assert.Equal(t, 1, testutil.CountRows(t, db, "shows"))
	assert.Equal(t, 1, testutil.CountRows(t, db, "venues"))
	assert.Empty(t, pub.events)
}

func TestDeleteArtist_FailureRollsBackShows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)

	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Hall"})
	artist := testutil.InsertArtist(t, db, model.Artist{Name: "Locked"})
	testutil.InsertShow(t, db, artist, venue, refNow)
	testutil.InsertShow(t, db, artist, venue, refNow.Add(time.Hour))
	installTrigger(t, db, `CREATE TRIGGER artists_no_delete BEFORE DELETE ON artists
		BEGIN SELECT RAISE(ABORT, 'artist is locked'); END`)

	out := d.DeleteArtist(ctx, artist)
	assert.Equal(t, service.ReasonPersistence, out.Reason)
	assert.Equal(t, 2, testutil.CountRows(t, db, "shows"))
	assert.Equal(t, 1, testutil.CountRows(t, db, "artists"))
}

func TestUpdateVenue_FailureKeepsStoredValues(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)

	id := testutil.InsertVenue(t, db, model.Venue{Name: "Before", City: "Austin", State: "TX", SeekingTalent: true})
	installTrigger(t, db, `CREATE TRIGGER venues_no_update BEFORE UPDATE ON venues
		BEGIN SELECT RAISE(ABORT, 'venue is frozen'); END`)

	out := d.UpdateVenue(ctx, id, model.VenueFields{Name: "After", City: "Dallas", State: "TX"})
	assert.Equal(t, service.ReasonPersistence, out.Reason)

	v, err := d.Venue(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Before", v.Name)
	assert.Equal(t, "Austin", v.City)
	assert.True(t, v.SeekingTalent)
}

func TestCreateVenue_FailureHasNoID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)
	installTrigger(t, db, `CREATE TRIGGER venues_no_insert AFTER INSERT ON venues
		BEGIN SELECT RAISE(ABORT, 'closed for listings'); END`)

	out := d.CreateVenue(ctx, model.VenueFields{Name: "Nope"})
	assert.Equal(t, service.ReasonPersistence, out.Reason)
	assert.Zero(t, out.ID)
	assert.Equal(t, "Nope", out.Name)
	assert.Zero(t, testutil.CountRows(t, db, "venues"))
}

func TestCreateShow_FailureHasNoID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	d := service.NewDirectory(db)
	venue := testutil.InsertVenue(t, db, model.Venue{Name: "Hall"})

	out := d.CreateShow(ctx, model.ShowFields{ArtistID: 12345, VenueID: venue, StartTime: refNow})
	assert.False(t, out.OK())
	assert.Zero(t, out.ID)
}
