package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"hbnb/db"
	"hbnb/models"
	"hbnb/storage"
)

// backend opens a Storage over durable state that survives restarts within one test
type backend struct {
	name string
	open func(t *testing.T, dir string) Storage
}

var backends = []backend{
	{
		name: "file",
		open: func(t *testing.T, dir string) Storage {
			blob := storage.NewDiskStorage(&storage.Bucket{Name: "test", Path: dir})
			return NewFileStorage(blob, "file.json", testLogger(t))
		},
	},
	{
		name: "db",
		open: func(t *testing.T, dir string) Storage {
			gdb, err := db.Open(db.Options{Dialect: db.DialectSQLite, SQLiteFile: filepath.Join(dir, "hbnb.db")})
			require.NoError(t, err)
			return NewDBStorage(gdb, DBOptions{}, testLogger(t))
		},
	},
}

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
}

// session is an open store plus the means to restart it
type session struct {
	t   *testing.T
	b   backend
	dir string
	Storage
}

func newSession(t *testing.T, b backend) *session {
	s := &session{t: t, b: b, dir: t.TempDir()}
	s.Storage = b.open(t, s.dir)
	require.NoError(t, s.Reload())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// restart closes the store and reloads a fresh one from durable state
func (s *session) restart() {
	require.NoError(s.t, s.Close())
	s.Storage = s.b.open(s.t, s.dir)
	require.NoError(s.t, s.Reload())
}

func forEachBackend(t *testing.T, test func(t *testing.T, s *session)) {
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			test(t, newSession(t, b))
		})
	}
}

// world is a small graph of every entity type
type world struct {
	state  *models.State
	city   *models.City
	host   *models.User
	guest  *models.User
	place  *models.Place
	wifi   *models.Amenity
	review *models.Review
}

func newWorld() *world {
	w := &world{}
	w.state = models.NewState("California")
	w.city = models.NewCity("San Francisco", w.state)
	w.host = models.NewUser("host@hbnb.io", "pwd")
	w.host.FirstName = "Betty"
	w.host.LastName = "Holberton"
	w.guest = models.NewUser("guest@hbnb.io", "pwd")
	w.place = models.NewPlace("Loft", w.city, w.host)
	w.place.Description = "Sunny loft"
	w.place.NumberRooms = 2
	w.place.NumberBathrooms = 1
	w.place.MaxGuest = 4
	w.place.PriceByNight = 120
	lat, long := 37.7749, -122.4194
	w.place.Latitude, w.place.Longitude = &lat, &long
	w.wifi = models.NewAmenity("Wifi")
	w.place.AddAmenity(w.wifi)
	w.review = models.NewReview("Great stay", w.place, w.guest)
	return w
}

func (w *world) entities() []models.Entity {
	return []models.Entity{w.state, w.city, w.host, w.guest, w.place, w.wifi, w.review}
}

func (w *world) register(s Storage) {
	for _, e := range w.entities() {
		s.New(e)
	}
}

func keysOf(all map[string]models.Entity) []string {
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	return keys
}

// sleep long enough for the microsecond clock to move
func tick() {
	time.Sleep(2 * time.Millisecond)
}
