package models

import "slices"

type Place struct {
	Record
	CityID          string   `gorm:"type:varchar(60);not null;index"`
	City            *City    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID          string   `gorm:"type:varchar(60);not null;index"`
	User            *User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name            string   `gorm:"type:varchar(128);not null"`
	Description     string   `gorm:"type:varchar(1024)"`
	NumberRooms     int      `gorm:"not null;default:0"`
	NumberBathrooms int      `gorm:"not null;default:0"`
	MaxGuest        int      `gorm:"not null;default:0"`
	PriceByNight    int      `gorm:"not null;default:0"`
	Latitude        *float64 // optional
	Longitude       *float64 // optional

	// AmenityIDs is the Place side of the place_amenity association.
	// The relational store loads it from and writes it back to the join table.
	AmenityIDs []string `gorm:"-"`
}

func NewPlace(name string, city *City, host *User) *Place {
	return &Place{Record: NewRecord(), Name: name, CityID: city.ID, UserID: host.ID}
}

func (*Place) Kind() Kind {
	return KindPlace
}

// AddAmenity links a, once
func (p *Place) AddAmenity(a *Amenity) {
	if a == nil || slices.Contains(p.AmenityIDs, a.ID) {
		return
	}
	p.AmenityIDs = append(p.AmenityIDs, a.ID)
}

func (p *Place) RemoveAmenity(amenityID string) bool {
	i := slices.Index(p.AmenityIDs, amenityID)
	if i < 0 {
		return false
	}
	p.AmenityIDs = slices.Delete(p.AmenityIDs, i, i+1)
	return true
}

func (p *Place) HasAmenity(amenityID string) bool {
	return slices.Contains(p.AmenityIDs, amenityID)
}

func (p *Place) Fields() Fields {
	f := p.Record.fields(KindPlace)
	f["city_id"] = p.CityID
	f["user_id"] = p.UserID
	f["name"] = p.Name
	f["description"] = p.Description
	f["number_rooms"] = p.NumberRooms
	f["number_bathrooms"] = p.NumberBathrooms
	f["max_guest"] = p.MaxGuest
	f["price_by_night"] = p.PriceByNight
	f["latitude"] = p.Latitude
	f["longitude"] = p.Longitude
	ids := p.AmenityIDs
	if ids == nil {
		ids = []string{}
	}
	f["amenity_ids"] = append([]string(nil), ids...)
	return f
}

func (p *Place) String() string {
	return describe(p)
}

func (p *Place) set(name string, value any) error {
	switch name {
	case "city_id":
		return setString(&p.CityID, name, value)
	case "user_id":
		return setString(&p.UserID, name, value)
	case "name":
		return setString(&p.Name, name, value)
	case "description":
		return setString(&p.Description, name, value)
	case "number_rooms":
		return setCount(&p.NumberRooms, name, value)
	case "number_bathrooms":
		return setCount(&p.NumberBathrooms, name, value)
	case "max_guest":
		return setCount(&p.MaxGuest, name, value)
	case "price_by_night":
		return setCount(&p.PriceByNight, name, value)
	case "latitude":
		return setFloat(&p.Latitude, name, value)
	case "longitude":
		return setFloat(&p.Longitude, name, value)
	case "amenity_ids":
		return setStrings(&p.AmenityIDs, name, value)
	}
	return p.Record.set(name, value)
}

// setCount is setInt for the non-negative counters of a place
func setCount(dst *int, name string, value any) error {
	var n int
	if err := setInt(&n, name, value); err != nil {
		return err
	}
	if n < 0 {
		return invalid(name, "a non-negative integer", value)
	}
	*dst = n
	return nil
}
