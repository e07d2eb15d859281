package models

import "fmt"

type kindInfo struct {
	newEntity func() Entity
	newRows   func() (any, func() []Entity)
}

var registry = map[Kind]kindInfo{
	KindState:   {func() Entity { return &State{} }, rowsOf[State]},
	KindCity:    {func() Entity { return &City{} }, rowsOf[City]},
	KindUser:    {func() Entity { return &User{} }, rowsOf[User]},
	KindPlace:   {func() Entity { return &Place{} }, rowsOf[Place]},
	KindReview:  {func() Entity { return &Review{} }, rowsOf[Review]},
	KindAmenity: {func() Entity { return &Amenity{} }, rowsOf[Amenity]},
}

// NewOf returns an empty entity of kind k (no id, no timestamps)
func NewOf(k Kind) (Entity, error) {
	info, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}
	return info.newEntity(), nil
}

// Rows returns a pointer to an empty slice of kind k suitable as a query destination,
// and a function returning its elements once filled
func Rows(k Kind) (dest any, collect func() []Entity, err error) {
	info, ok := registry[k]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}
	dest, collect = info.newRows()
	return dest, collect, nil
}

func rowsOf[T any, PT interface {
	*T
	Entity
}]() (any, func() []Entity) {
	var rows []PT
	return &rows, func() []Entity {
		result := make([]Entity, len(rows))
		for i, r := range rows {
			result[i] = r
		}
		return result
	}
}

// Tables lists the gorm models in creation order, join tables last
func Tables() []any {
	var result []any
	for _, k := range creationOrder {
		result = append(result, registry[k].newEntity())
	}
	return append(result, &PlaceAmenity{})
}
