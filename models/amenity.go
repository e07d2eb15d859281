package models

type Amenity struct {
	Record
	Name string `gorm:"type:varchar(128);not null"`
}

func NewAmenity(name string) *Amenity {
	return &Amenity{Record: NewRecord(), Name: name}
}

func (*Amenity) Kind() Kind {
	return KindAmenity
}

func (a *Amenity) Fields() Fields {
	f := a.Record.fields(KindAmenity)
	f["name"] = a.Name
	return f
}

func (a *Amenity) String() string {
	return describe(a)
}

func (a *Amenity) set(name string, value any) error {
	if name == "name" {
		return setString(&a.Name, name, value)
	}
	return a.Record.set(name, value)
}
