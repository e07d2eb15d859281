package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every storable type of this package
type Entity interface {
	Kind() Kind
	Base() *Record
	// Fields is the flat field record, including the ClassField discriminator
	Fields() Fields
	set(name string, value any) error
}

// Record carries the identity and timestamps shared by all entities.
// ID is assigned once by NewRecord (or restored from a field record) and never changes.
type Record struct {
	ID        string    `gorm:"type:varchar(60);primaryKey"`
	CreatedAt time.Time `gorm:"not null;precision:6;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;precision:6;autoUpdateTime:false"`
}

// Now is the clock used for timestamps, truncated to what field records and SQL columns keep
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func NewRecord() Record {
	now := Now()
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Record) Base() *Record {
	return r
}

// Touch refreshes UpdatedAt, never moving it before CreatedAt
func (r *Record) Touch() {
	now := Now()
	if now.Before(r.CreatedAt) {
		now = r.CreatedAt
	}
	r.UpdatedAt = now
}

func (r *Record) set(name string, value any) error {
	switch name {
	case "id":
		return setString(&r.ID, name, value)
	case "created_at":
		return setTime(&r.CreatedAt, name, value)
	case "updated_at":
		return setTime(&r.UpdatedAt, name, value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

func describe(e Entity) string {
	f := e.Fields()
	delete(f, ClassField)
	return fmt.Sprintf("[%s] (%s) %v", e.Kind(), e.Base().ID, map[string]any(f))
}
