package models

type State struct {
	Record
	Name string `gorm:"type:varchar(128);not null"`
}

func NewState(name string) *State {
	return &State{Record: NewRecord(), Name: name}
}

func (*State) Kind() Kind {
	return KindState
}

func (s *State) Fields() Fields {
	f := s.Record.fields(KindState)
	f["name"] = s.Name
	return f
}

func (s *State) String() string {
	return describe(s)
}

func (s *State) set(name string, value any) error {
	if name == "name" {
		return setString(&s.Name, name, value)
	}
	return s.Record.set(name, value)
}
