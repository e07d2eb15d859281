package engine

import (
	"fmt"
	"slices"
	"strings"

	"hbnb/models"
)

// Related resolves the entities of type T linked to owner through the active backend.
// Results are sorted by creation time then id; callers must not rely on any order.
func Related[T models.Entity](s Storage, owner models.Entity) ([]T, error) {
	var zero T
	items, err := s.Related(owner, zero.Kind())
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(items))
	for _, e := range items {
		t, ok := e.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a %s", models.ErrUnknownKind, models.Key(e), zero.Kind())
		}
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b T) int {
		if c := a.Base().CreatedAt.Compare(b.Base().CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Base().ID, b.Base().ID)
	})
	return result, nil
}

func ReviewsOf(s Storage, p *models.Place) ([]*models.Review, error) {
	return Related[*models.Review](s, p)
}

func AmenitiesOf(s Storage, p *models.Place) ([]*models.Amenity, error) {
	return Related[*models.Amenity](s, p)
}

// PlacesWithAmenity is the back-reference of AmenitiesOf
func PlacesWithAmenity(s Storage, a *models.Amenity) ([]*models.Place, error) {
	return Related[*models.Place](s, a)
}

func CitiesOf(s Storage, st *models.State) ([]*models.City, error) {
	return Related[*models.City](s, st)
}

// PlacesOf lists the places of a city or of a host user
func PlacesOf(s Storage, owner models.Entity) ([]*models.Place, error) {
	return Related[*models.Place](s, owner)
}

func ReviewsBy(s Storage, u *models.User) ([]*models.Review, error) {
	return Related[*models.Review](s, u)
}

// Persist refreshes e's updated_at, registers it and saves the working set.
// updated_at is restored if the save fails.
func Persist(s Storage, e models.Entity) error {
	if e == nil {
		return nil
	}
	ensureRecord(e)
	r := e.Base()
	previous := r.UpdatedAt
	r.Touch()
	s.New(e)
	if err := s.Save(); err != nil {
		r.UpdatedAt = previous
		return err
	}
	return nil
}

// ensureRecord gives an entity built without a constructor its id and timestamps
func ensureRecord(e models.Entity) {
	if r := e.Base(); r.ID == "" {
		*r = models.NewRecord()
	}
}

func ownedIn(candidates []models.Entity, o models.Ownership, ownerID string) []models.Entity {
	var result []models.Entity
	for _, e := range candidates {
		if o.OwnerID(e) == ownerID {
			result = append(result, e)
		}
	}
	return result
}

func linkedIn(lefts []models.Entity, as models.Association, rightID string) []models.Entity {
	var result []models.Entity
	for _, left := range lefts {
		if slices.Contains(as.Members(left), rightID) {
			result = append(result, left)
		}
	}
	return result
}
