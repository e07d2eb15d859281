package models

import (
	"fmt"
	"strings"
)

// Kind discriminates entity types; its String form is the prefix of composite keys
type Kind uint8

const (
	KindUnknown Kind = iota
	KindState
	KindCity
	KindUser
	KindPlace
	KindReview
	KindAmenity
)

var kindNames = [...]string{
	KindUnknown: "",
	KindState:   "State",
	KindCity:    "City",
	KindUser:    "User",
	KindPlace:   "Place",
	KindReview:  "Review",
	KindAmenity: "Amenity",
}

// creationOrder lists every kind so that owners come before their dependents
var creationOrder = []Kind{KindState, KindUser, KindAmenity, KindCity, KindPlace, KindReview}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func ParseKind(name string) (Kind, error) {
	for _, k := range creationOrder {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Kinds returns all known kinds, owners first
func Kinds() []Kind {
	return append([]Kind(nil), creationOrder...)
}

// KeyOf builds the composite key "<Kind>.<id>"
func KeyOf(k Kind, id string) string {
	return k.String() + "." + id
}

// Key is the composite key of e
func Key(e Entity) string {
	return KeyOf(e.Kind(), e.Base().ID)
}

// SplitKey is the inverse of KeyOf
func SplitKey(key string) (Kind, string, error) {
	name, id, ok := strings.Cut(key, ".")
	if !ok || id == "" {
		return KindUnknown, "", fmt.Errorf("%w: malformed key %q", ErrUnknownKind, key)
	}
	k, err := ParseKind(name)
	return k, id, err
}
