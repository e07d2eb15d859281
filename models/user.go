package models

import "hbnb/utils"

type User struct {
	Record
	Email     string `gorm:"type:varchar(128);not null"`
	Password  string `gorm:"type:varchar(128);not null"` // SHA-512 hex digest when set with SetPassword
	FirstName string `gorm:"type:varchar(128)"`
	LastName  string `gorm:"type:varchar(128)"`
}

func NewUser(email, plainTextPassword string) *User {
	u := &User{Record: NewRecord(), Email: email}
	u.SetPassword(plainTextPassword)
	return u
}

func (*User) Kind() Kind {
	return KindUser
}

func (u *User) SetPassword(plainTextPassword string) {
	u.Password = utils.Sha512String(plainTextPassword)
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return u.Password == utils.Sha512String(plainTextPassword)
}

func (u *User) Fields() Fields {
	f := u.Record.fields(KindUser)
	f["email"] = u.Email
	f["password"] = u.Password
	f["first_name"] = u.FirstName
	f["last_name"] = u.LastName
	return f
}

func (u *User) String() string {
	return describe(u)
}

func (u *User) set(name string, value any) error {
	switch name {
	case "email":
		return setString(&u.Email, name, value)
	case "password":
		return setString(&u.Password, name, value)
	case "first_name":
		return setString(&u.FirstName, name, value)
	case "last_name":
		return setString(&u.LastName, name, value)
	}
	return u.Record.set(name, value)
}
