package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r1 := NewRecord()
	r2 := NewRecord()
	assert.NotEmpty(t, r1.ID)
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, r1.CreatedAt, r1.UpdatedAt)
	assert.Equal(t, time.UTC, r1.CreatedAt.Location())
	assert.Zero(t, r1.CreatedAt.Nanosecond()%1000, "timestamps keep microseconds only")
}

func TestRecordTouch(t *testing.T) {
	r := NewRecord()
	id := r.ID
	time.Sleep(2 * time.Millisecond)
	r.Touch()
	assert.True(t, r.UpdatedAt.After(r.CreatedAt))
	assert.Equal(t, id, r.ID)

	// A record restored with a creation time in the future still keeps updated_at >= created_at
	r.CreatedAt = Now().Add(time.Hour)
	r.Touch()
	assert.False(t, r.UpdatedAt.Before(r.CreatedAt))
}

func TestKeys(t *testing.T) {
	s := NewState("California")
	key := Key(s)
	assert.Equal(t, "State."+s.ID, key)

	k, id, err := SplitKey(key)
	require.NoError(t, err)
	assert.Equal(t, KindState, k)
	assert.Equal(t, s.ID, id)

	_, _, err = SplitKey("Spaceship.42")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, _, err = SplitKey("State")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("BaseModel")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestString(t *testing.T) {
	s := NewState("Nevada")
	str := s.String()
	assert.True(t, strings.HasPrefix(str, "[State] ("+s.ID+") "), str)
	assert.Contains(t, str, "name:Nevada")
	assert.NotContains(t, str, ClassField)
}

func TestUserPassword(t *testing.T) {
	u := NewUser("guest@hbnb.io", "secret")
	assert.NotEqual(t, "secret", u.Password)
	assert.True(t, u.CheckPassword("secret"))
	assert.False(t, u.CheckPassword("Secret"))
}

func TestPlaceAmenities(t *testing.T) {
	st := NewState("California")
	p := NewPlace("Loft", NewCity("SF", st), NewUser("host@hbnb.io", "pwd"))
	wifi := NewAmenity("Wifi")
	pool := NewAmenity("Pool")

	p.AddAmenity(wifi)
	p.AddAmenity(wifi)
	p.AddAmenity(nil)
	p.AddAmenity(pool)
	assert.Equal(t, []string{wifi.ID, pool.ID}, p.AmenityIDs)
	assert.True(t, p.HasAmenity(pool.ID))

	assert.True(t, p.RemoveAmenity(wifi.ID))
	assert.False(t, p.RemoveAmenity(wifi.ID))
	assert.Equal(t, []string{pool.ID}, p.AmenityIDs)
	assert.Equal(t, []string{pool.ID}, PlaceAmenities.Members(p))
}
