package domain

import "slices"

// Amenity field limits.
const (
	MaxAmenityNameLength        = 50
	MaxAmenityDescriptionLength = 200
)

// Amenity is a feature a place can offer, such as "Wi-Fi" or "Pool".
type Amenity struct {
	Base
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PlaceIDs    []string `json:"-"`
}

// AmenityPatch lists the amenity fields that can be updated.
type AmenityPatch struct {
	Name        *string
	Description *string
}

// NewAmenity creates a new Amenity. The description is optional.
func NewAmenity(name, description string) (*Amenity, error) {
	a := &Amenity{Base: NewBase()}

	var err error
	if a.Name, err = requiredString("name", name, MaxAmenityNameLength); err != nil {
		return nil, err
	}
	if a.Description, err = optionalString("description", description, MaxAmenityDescriptionLength); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks if the Amenity has valid data.
func (a *Amenity) Validate() error {
	if err := a.validateBase(); err != nil {
		return err
	}
	if _, err := requiredString("name", a.Name, MaxAmenityNameLength); err != nil {
		return err
	}
	_, err := optionalString("description", a.Description, MaxAmenityDescriptionLength)
	return err
}

// SetName validates and sets the name.
func (a *Amenity) SetName(name string) error {
	v, err := requiredString("name", name, MaxAmenityNameLength)
	if err != nil {
		return err
	}
	a.Name = v
	a.Touch()
	return nil
}

// SetDescription validates and sets the description.
func (a *Amenity) SetDescription(description string) error {
	v, err := optionalString("description", description, MaxAmenityDescriptionLength)
	if err != nil {
		return err
	}
	a.Description = v
	a.Touch()
	return nil
}

// Apply applies the patch atomically.
func (a *Amenity) Apply(p AmenityPatch) error {
	next := a.Clone()
	if p.Name != nil {
		if err := next.SetName(*p.Name); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := next.SetDescription(*p.Description); err != nil {
			return err
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.Touch()
	*a = *next
	return nil
}

// AddPlace links the amenity and the place in both directions.
func (a *Amenity) AddPlace(p *Place) {
	p.AddAmenity(a)
}

// RemovePlace unlinks the amenity and the place in both directions.
func (a *Amenity) RemovePlace(p *Place) {
	p.RemoveAmenity(a)
}

// HasPlace reports whether the amenity is offered by the place.
func (a *Amenity) HasPlace(placeID string) bool {
	return slices.Contains(a.PlaceIDs, placeID)
}

// Clone returns a deep copy of the amenity.
func (a *Amenity) Clone() *Amenity {
	c := *a
	c.PlaceIDs = slices.Clone(a.PlaceIDs)
	return &c
}
