package domain

import (
	"math"
	"slices"
)

// Place field limits.
const (
	MaxPlaceTitleLength       = 100
	MaxPlaceDescriptionLength = 1000
	MaxPrice                  = 1_000_000
)

// Place is a listing offered for rent by its owner.
// Amenities are linked in both directions; reviews are back-references whose
// authoritative link is Review.PlaceID.
type Place struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenity_ids"`
	ReviewIDs   []string `json:"-"`
}

// PlacePatch lists the scalar place fields that can be updated. Changing the
// owner or the amenities needs the referenced entities and is done with
// SetOwner, AddAmenity and RemoveAmenity.
type PlacePatch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
}

// NewPlace creates a new Place owned by owner and registers it with the owner.
func NewPlace(title, description string, price, latitude, longitude float64, owner *User) (*Place, error) {
	p := &Place{Base: NewBase()}

	var err error
	if p.Title, err = requiredString("title", title, MaxPlaceTitleLength); err != nil {
		return nil, err
	}
	if p.Description, err = optionalString("description", description, MaxPlaceDescriptionLength); err != nil {
		return nil, err
	}
	if p.Price, err = checkPrice(price); err != nil {
		return nil, err
	}
	if err = inRange("latitude", latitude, -90, 90); err != nil {
		return nil, err
	}
	if err = inRange("longitude", longitude, -180, 180); err != nil {
		return nil, err
	}
	p.Latitude = latitude
	p.Longitude = longitude

	if err = p.SetOwner(owner); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Place has valid data.
func (p *Place) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}
	if _, err := requiredString("title", p.Title, MaxPlaceTitleLength); err != nil {
		return err
	}
	if _, err := optionalString("description", p.Description, MaxPlaceDescriptionLength); err != nil {
		return err
	}
	if _, err := checkPrice(p.Price); err != nil {
		return err
	}
	if err := inRange("latitude", p.Latitude, -90, 90); err != nil {
		return err
	}
	if err := inRange("longitude", p.Longitude, -180, 180); err != nil {
		return err
	}
	return requiredID("owner_id", p.OwnerID)
}

// SetTitle validates and sets the title.
func (p *Place) SetTitle(title string) error {
	v, err := requiredString("title", title, MaxPlaceTitleLength)
	if err != nil {
		return err
	}
	p.Title = v
	p.Touch()
	return nil
}

// SetDescription validates and sets the description.
func (p *Place) SetDescription(description string) error {
	v, err := optionalString("description", description, MaxPlaceDescriptionLength)
	if err != nil {
		return err
	}
	p.Description = v
	p.Touch()
	return nil
}

// SetPrice validates the price and stores it rounded to 2 decimals.
func (p *Place) SetPrice(price float64) error {
	v, err := checkPrice(price)
	if err != nil {
		return err
	}
	p.Price = v
	p.Touch()
	return nil
}

// SetLatitude validates and sets the latitude.
func (p *Place) SetLatitude(latitude float64) error {
	if err := inRange("latitude", latitude, -90, 90); err != nil {
		return err
	}
	p.Latitude = latitude
	p.Touch()
	return nil
}

// SetLongitude validates and sets the longitude.
func (p *Place) SetLongitude(longitude float64) error {
	if err := inRange("longitude", longitude, -180, 180); err != nil {
		return err
	}
	p.Longitude = longitude
	p.Touch()
	return nil
}

// SetOwner sets the owner and registers the place with them.
// The previous owner's back-reference is not touched here; callers holding
// the previous owner must call RemovePlace on it.
func (p *Place) SetOwner(owner *User) error {
	if owner == nil || owner.ID == "" {
		return NewValidationError("owner_id", "is required", ErrRequired)
	}
	if p.OwnerID != owner.ID {
		p.OwnerID = owner.ID
		p.Touch()
	}
	owner.AddPlace(p.ID)
	return nil
}

// Apply applies the patch atomically.
func (p *Place) Apply(patch PlacePatch) error {
	next := p.Clone()
	if patch.Title != nil {
		if err := next.SetTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := next.SetDescription(*patch.Description); err != nil {
			return err
		}
	}
	if patch.Price != nil {
		if err := next.SetPrice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.Latitude != nil {
		if err := next.SetLatitude(*patch.Latitude); err != nil {
			return err
		}
	}
	if patch.Longitude != nil {
		if err := next.SetLongitude(*patch.Longitude); err != nil {
			return err
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.Touch()
	*p = *next
	return nil
}

// AddAmenity links the place and the amenity in both directions.
// Adding an amenity twice is a no-op.
func (p *Place) AddAmenity(a *Amenity) {
	var changed bool
	if p.AmenityIDs, changed = addID(p.AmenityIDs, a.ID); changed {
		p.Touch()
	}
	if a.PlaceIDs, changed = addID(a.PlaceIDs, p.ID); changed {
		a.Touch()
	}
}

// RemoveAmenity unlinks the place and the amenity in both directions.
// Removing an absent amenity is a no-op.
func (p *Place) RemoveAmenity(a *Amenity) {
	var changed bool
	if p.AmenityIDs, changed = removeID(p.AmenityIDs, a.ID); changed {
		p.Touch()
	}
	if a.PlaceIDs, changed = removeID(a.PlaceIDs, p.ID); changed {
		a.Touch()
	}
}

// HasAmenity reports whether the place offers the amenity.
func (p *Place) HasAmenity(amenityID string) bool {
	return slices.Contains(p.AmenityIDs, amenityID)
}

// AddReview registers a review of this place.
func (p *Place) AddReview(reviewID string) {
	var changed bool
	if p.ReviewIDs, changed = addID(p.ReviewIDs, reviewID); changed {
		p.Touch()
	}
}

// RemoveReview removes a review back-reference.
func (p *Place) RemoveReview(reviewID string) {
	var changed bool
	if p.ReviewIDs, changed = removeID(p.ReviewIDs, reviewID); changed {
		p.Touch()
	}
}

// AverageRating returns the mean rating of the reviews that belong to this
// place, rounded to 1 decimal. Reviews of other places are ignored. It
// returns 0 when there are no reviews.
func (p *Place) AverageRating(reviews []*Review) float64 {
	var sum, n int
	for _, r := range reviews {
		if r == nil || r.PlaceID != p.ID {
			continue
		}
		sum += r.Rating
		n++
	}
	if n == 0 {
		return 0
	}
	return round(float64(sum)/float64(n), 1)
}

// Clone returns a deep copy of the place.
func (p *Place) Clone() *Place {
	c := *p
	c.AmenityIDs = slices.Clone(p.AmenityIDs)
	c.ReviewIDs = slices.Clone(p.ReviewIDs)
	return &c
}

// checkPrice bounds the raw value, then rounds it to 2 decimals. A value that
// rounds to 0 is rejected too.
func checkPrice(price float64) (float64, error) {
	if math.IsNaN(price) || price <= 0 || price > MaxPrice {
		return 0, errPrice()
	}
	v := round(price, 2)
	if v <= 0 {
		return 0, errPrice()
	}
	return v, nil
}

func errPrice() error {
	return NewValidationError("price", "must be greater than 0 and at most 1000000", ErrOutOfRange)
}
