package models

type City struct {
	Record
	Name    string `gorm:"type:varchar(128);not null"`
	StateID string `gorm:"type:varchar(60);not null;index"`
	State   *State `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func NewCity(name string, state *State) *City {
	return &City{Record: NewRecord(), Name: name, StateID: state.ID}
}

func (*City) Kind() Kind {
	return KindCity
}

func (c *City) Fields() Fields {
	f := c.Record.fields(KindCity)
	f["name"] = c.Name
	f["state_id"] = c.StateID
	return f
}

func (c *City) String() string {
	return describe(c)
}

func (c *City) set(name string, value any) error {
	switch name {
	case "name":
		return setString(&c.Name, name, value)
	case "state_id":
		return setString(&c.StateID, name, value)
	}
	return c.Record.set(name, value)
}
