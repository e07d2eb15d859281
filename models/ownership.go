package models

// Ownership is a cascade edge: deleting an Owner deletes every Dependent whose Column refers to it
type Ownership struct {
	Owner     Kind
	Dependent Kind
	Column    string // foreign key column of the dependent, also its field record key
	ownerID   func(Entity) string
}

// OwnerID reads the foreign key of dependent, "" if dependent is not of kind o.Dependent
func (o Ownership) OwnerID(dependent Entity) string {
	if dependent == nil || dependent.Kind() != o.Dependent {
		return ""
	}
	return o.ownerID(dependent)
}

// Association is a many-to-many relation stored as a list of Right ids on the Left entity
// (and as a join table in SQL). Deleting either end drops the link, nothing else.
type Association struct {
	Table       string
	Left        Kind
	Right       Kind
	LeftColumn  string
	RightColumn string
	members     func(left Entity) []string
	link        func(left Entity, rightID string)
	unlink      func(left Entity, rightID string) bool
}

// Members returns the Right ids linked to left
func (a Association) Members(left Entity) []string {
	if left == nil || left.Kind() != a.Left {
		return nil
	}
	return a.members(left)
}

// Link adds rightID to left, once
func (a Association) Link(left Entity, rightID string) {
	if left == nil || left.Kind() != a.Left || rightID == "" {
		return
	}
	a.link(left, rightID)
}

// Unlink removes rightID from left, reporting whether it was linked
func (a Association) Unlink(left Entity, rightID string) bool {
	if left == nil || left.Kind() != a.Left {
		return false
	}
	return a.unlink(left, rightID)
}

// Ownerships is the single declaration of ownership used by every store.
// The gorm constraint tags of the dependents mirror it.
var Ownerships = []Ownership{
	{Owner: KindState, Dependent: KindCity, Column: "state_id", ownerID: func(e Entity) string { return e.(*City).StateID }},
	{Owner: KindCity, Dependent: KindPlace, Column: "city_id", ownerID: func(e Entity) string { return e.(*Place).CityID }},
	{Owner: KindUser, Dependent: KindPlace, Column: "user_id", ownerID: func(e Entity) string { return e.(*Place).UserID }},
	{Owner: KindPlace, Dependent: KindReview, Column: "place_id", ownerID: func(e Entity) string { return e.(*Review).PlaceID }},
	{Owner: KindUser, Dependent: KindReview, Column: "user_id", ownerID: func(e Entity) string { return e.(*Review).UserID }},
}

var PlaceAmenities = Association{
	Table:       "place_amenity",
	Left:        KindPlace,
	Right:       KindAmenity,
	LeftColumn:  "place_id",
	RightColumn: "amenity_id",
	members: func(left Entity) []string {
		return append([]string(nil), left.(*Place).AmenityIDs...)
	},
	link: func(left Entity, rightID string) {
		p := left.(*Place)
		if !p.HasAmenity(rightID) {
			p.AmenityIDs = append(p.AmenityIDs, rightID)
		}
	},
	unlink: func(left Entity, rightID string) bool {
		return left.(*Place).RemoveAmenity(rightID)
	},
}

var Associations = []Association{PlaceAmenities}

// OwnedBy lists the ownership edges starting at k
func OwnedBy(k Kind) []Ownership {
	var result []Ownership
	for _, o := range Ownerships {
		if o.Owner == k {
			result = append(result, o)
		}
	}
	return result
}

func FindOwnership(owner, dependent Kind) (Ownership, bool) {
	for _, o := range Ownerships {
		if o.Owner == owner && o.Dependent == dependent {
			return o, true
		}
	}
	return Ownership{}, false
}

// FindAssociation matches either orientation of a and b
func FindAssociation(a, b Kind) (Association, bool) {
	for _, as := range Associations {
		if (as.Left == a && as.Right == b) || (as.Left == b && as.Right == a) {
			return as, true
		}
	}
	return Association{}, false
}

// AssociationsOf lists the associations k takes part in, on either side
func AssociationsOf(k Kind) []Association {
	var result []Association
	for _, as := range Associations {
		if as.Left == k || as.Right == k {
			result = append(result, as)
		}
	}
	return result
}
