package models

// PlaceAmenity is a row of the place_amenity join table
type PlaceAmenity struct {
	PlaceID   string   `gorm:"type:varchar(60);primaryKey"`
	Place     *Place   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AmenityID string   `gorm:"type:varchar(60);primaryKey"`
	Amenity   *Amenity `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (PlaceAmenity) TableName() string {
	return PlaceAmenities.Table
}
