package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb/db"
	"hbnb/models"
)

func newDBStorage(t *testing.T, file string, opts DBOptions) *DBStorage {
	gdb, err := db.Open(db.Options{Dialect: db.DialectSQLite, SQLiteFile: file})
	require.NoError(t, err)
	s := NewDBStorage(gdb, opts, testLogger(t))
	require.NoError(t, s.Reload())
	return s
}

func TestDBDropOnReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hbnb.db")
	s := newDBStorage(t, file, DBOptions{})
	w := newWorld()
	w.register(s)
	require.NoError(t, s.Save())
	require.NoError(t, s.Close())

	kept := newDBStorage(t, file, DBOptions{})
	n, err := kept.Count()
	require.NoError(t, err)
	assert.Equal(t, len(w.entities()), n)
	require.NoError(t, kept.Close())

	dropped := newDBStorage(t, file, DBOptions{DropOnReload: true})
	defer dropped.Close()
	n, err = dropped.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	has := dropped.db.Migrator().HasTable(models.PlaceAmenities.Table)
	assert.True(t, has)
}

func TestDBForeignKeyViolation(t *testing.T) {
	s := newDBStorage(t, filepath.Join(t.TempDir(), "hbnb.db"), DBOptions{})
	defer s.Close()

	orphan := models.NewCity("Nowhere", &models.State{Record: models.NewRecord()})
	before := orphan.UpdatedAt
	tick()
	err := Persist(s, orphan)
	require.ErrorIs(t, err, ErrBackend)
	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "db", be.Backend)
	assert.Equal(t, before, orphan.UpdatedAt)

	// nothing of the failed transaction was committed
	require.NoError(t, s.Reload())
	n, err := s.Count(models.KindCity)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDBSaveIsAtomic(t *testing.T) {
	s := newDBStorage(t, filepath.Join(t.TempDir(), "hbnb.db"), DBOptions{})
	defer s.Close()

	st := models.NewState("California")
	s.New(st)
	s.New(models.NewCity("Nowhere", &models.State{Record: models.NewRecord()}))
	require.ErrorIs(t, s.Save(), ErrBackend)

	require.NoError(t, s.Reload())
	_, err := s.Get(models.KindState, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBStagedDeleteHidesEntity(t *testing.T) {
	s := newDBStorage(t, filepath.Join(t.TempDir(), "hbnb.db"), DBOptions{})
	defer s.Close()
	w := newWorld()
	w.register(s)
	require.NoError(t, s.Save())

	require.NoError(t, s.Delete(w.city))
	_, err := s.Get(models.KindCity, w.city.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(models.KindPlace, w.place.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	cities, err := CitiesOf(s, w.state)
	require.NoError(t, err)
	assert.Empty(t, cities)

	// registering again cancels the staged delete of that entity only
	s.New(w.city)
	got, err := s.Get(models.KindCity, w.city.ID)
	require.NoError(t, err)
	assert.Same(t, w.city, got)
}

func TestDBRelatedCommittedRows(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hbnb.db")
	s := newDBStorage(t, file, DBOptions{})
	w := newWorld()
	w.register(s)
	require.NoError(t, s.Save())
	require.NoError(t, s.Close())

	s = newDBStorage(t, file, DBOptions{})
	defer s.Close()

	places, err := PlacesWithAmenity(s, w.wifi)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, w.place.ID, places[0].ID)
	assert.Equal(t, []string{w.wifi.ID}, places[0].AmenityIDs)

	placesOfHost, err := PlacesOf(s, w.host)
	require.NoError(t, err)
	require.Len(t, placesOfHost, 1)
	assert.Same(t, places[0], placesOfHost[0])

	reviews, err := ReviewsBy(s, w.guest)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great stay", reviews[0].Text)

	// an unsaved link is visible before Save
	pool := models.NewAmenity("Pool")
	s.New(pool)
	places[0].AddAmenity(pool)
	withPool, err := PlacesWithAmenity(s, pool)
	require.NoError(t, err)
	require.Len(t, withPool, 1)
	assert.Same(t, places[0], withPool[0])
}

func TestDBClose(t *testing.T) {
	s := newDBStorage(t, filepath.Join(t.TempDir(), "hbnb.db"), DBOptions{})
	require.NoError(t, s.Close())
	_, err := s.All(models.KindState)
	assert.ErrorIs(t, err, ErrBackend)
}
