package models

type Review struct {
	Record
	Text    string `gorm:"type:varchar(1024);not null"`
	PlaceID string `gorm:"type:varchar(60);not null;index"`
	Place   *Place `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID  string `gorm:"type:varchar(60);not null;index"`
	User    *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func NewReview(text string, place *Place, author *User) *Review {
	return &Review{Record: NewRecord(), Text: text, PlaceID: place.ID, UserID: author.ID}
}

func (*Review) Kind() Kind {
	return KindReview
}

func (r *Review) Fields() Fields {
	f := r.Record.fields(KindReview)
	f["text"] = r.Text
	f["place_id"] = r.PlaceID
	f["user_id"] = r.UserID
	return f
}

func (r *Review) String() string {
	return describe(r)
}

func (r *Review) set(name string, value any) error {
	switch name {
	case "text":
		return setString(&r.Text, name, value)
	case "place_id":
		return setString(&r.PlaceID, name, value)
	case "user_id":
		return setString(&r.UserID, name, value)
	}
	return r.Record.set(name, value)
}
