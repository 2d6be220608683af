package service

import (
	"context"
	"errors"
	"slices"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/store"
)

func (f *hbnbFacade) CreatePlace(ctx context.Context, in CreatePlaceInput) (*domain.Place, error) {
	var place *domain.Place
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		owner, err := resolveUser(ctx, s, "owner_id", in.OwnerID)
		if err != nil {
			return err
		}
		amenities, err := resolveAmenities(ctx, s, in.AmenityIDs)
		if err != nil {
			return err
		}

		place, err = domain.NewPlace(in.Title, in.Description, in.Price, in.Latitude, in.Longitude, owner)
		if err != nil {
			return err
		}
		for _, a := range amenities {
			place.AddAmenity(a)
		}

		if err := s.Places.Create(ctx, place); err != nil {
			return err
		}
		if err := s.Users.Update(ctx, owner); err != nil {
			return err
		}
		for _, a := range amenities {
			if err := s.Amenities.Update(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, f.fail(ctx, "create place", err, "owner_id", in.OwnerID)
	}

	f.log(ctx).Info("place created", "place_id", place.ID, "owner_id", place.OwnerID)
	return place, nil
}

func (f *hbnbFacade) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	place, err := f.stores().Places.GetByID(ctx, id)
	if err != nil {
		return nil, f.fail(ctx, "get place", err, "place_id", id)
	}
	return place, nil
}

func (f *hbnbFacade) GetPlaceDetails(ctx context.Context, id string) (*PlaceDetails, error) {
	var details *PlaceDetails
	// A transaction gives the memory backend a consistent view of all four
	// repositories while the details are assembled.
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		place, err := s.Places.GetByID(ctx, id)
		if err != nil {
			return err
		}
		details = &PlaceDetails{Place: place}

		owner, err := s.Users.GetByID(ctx, place.OwnerID)
		switch {
		case err == nil:
			details.Owner = owner
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		details.Amenities = make([]*domain.Amenity, 0, len(place.AmenityIDs))
		for _, amenityID := range place.AmenityIDs {
			a, err := s.Amenities.GetByID(ctx, amenityID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			details.Amenities = append(details.Amenities, a)
		}

		if details.Reviews, err = s.Reviews.ListByPlace(ctx, place.ID); err != nil {
			return err
		}
		details.AverageRating = place.AverageRating(details.Reviews)
		return nil
	})
	if err != nil {
		return nil, f.fail(ctx, "get place details", err, "place_id", id)
	}
	return details, nil
}

func (f *hbnbFacade) GetAllPlaces(ctx context.Context) ([]*domain.Place, error) {
	places, err := f.stores().Places.List(ctx)
	if err != nil {
		return nil, f.fail(ctx, "list places", err)
	}
	return places, nil
}

func (f *hbnbFacade) UpdatePlace(ctx context.Context, id string, in UpdatePlaceInput) (*domain.Place, error) {
	var place *domain.Place
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		var err error
		if place, err = s.Places.GetByID(ctx, id); err != nil {
			return err
		}

		// Resolve every reference before anything is written.
		var newOwner, oldOwner *domain.User
		if in.OwnerID != nil && *in.OwnerID != place.OwnerID {
			if newOwner, err = resolveUser(ctx, s, "owner_id", *in.OwnerID); err != nil {
				return err
			}
			oldOwner, err = s.Users.GetByID(ctx, place.OwnerID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		var wanted []*domain.Amenity
		if in.AmenityIDs != nil {
			if wanted, err = resolveAmenities(ctx, s, *in.AmenityIDs); err != nil {
				return err
			}
		}

		if err := place.Apply(in.PlacePatch); err != nil {
			return err
		}

		var changedUsers []*domain.User
		if newOwner != nil {
			if err := place.SetOwner(newOwner); err != nil {
				return err
			}
			changedUsers = append(changedUsers, newOwner)
			if oldOwner != nil {
				oldOwner.RemovePlace(place.ID)
				changedUsers = append(changedUsers, oldOwner)
			}
		}

		changedAmenities, err := replaceAmenities(ctx, s, place, wanted, in.AmenityIDs != nil)
		if err != nil {
			return err
		}

		if err := s.Places.Update(ctx, place); err != nil {
			return err
		}
		for _, u := range changedUsers {
			if err := s.Users.Update(ctx, u); err != nil {
				return err
			}
		}
		for _, a := range changedAmenities {
			if err := s.Amenities.Update(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, f.fail(ctx, "update place", err, "place_id", id)
	}
	return place, nil
}

// replaceAmenities makes wanted the amenity list of place, updating the
// back-references of every amenity that was added or dropped. It returns the
// amenities that need to be persisted.
func replaceAmenities(
	ctx context.Context,
	s store.Stores,
	place *domain.Place,
	wanted []*domain.Amenity,
	replace bool,
) ([]*domain.Amenity, error) {
	if !replace {
		return nil, nil
	}

	keep := make(map[string]bool, len(wanted))
	for _, a := range wanted {
		keep[a.ID] = true
	}

	var changed []*domain.Amenity
	for _, amenityID := range slices.Clone(place.AmenityIDs) {
		if keep[amenityID] {
			continue
		}
		a, err := s.Amenities.GetByID(ctx, amenityID)
		if errors.Is(err, store.ErrNotFound) {
			// Dangling link: drop it from the place only.
			place.AmenityIDs = slices.DeleteFunc(place.AmenityIDs, func(v string) bool { return v == amenityID })
			continue
		}
		if err != nil {
			return nil, err
		}
		place.RemoveAmenity(a)
		changed = append(changed, a)
	}

	for _, a := range wanted {
		if place.HasAmenity(a.ID) && a.HasPlace(place.ID) {
			continue
		}
		place.AddAmenity(a)
		changed = append(changed, a)
	}
	return changed, nil
}
