package service

import (
	"context"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/store"
)

func (f *hbnbFacade) CreateAmenity(ctx context.Context, in CreateAmenityInput) (*domain.Amenity, error) {
	amenity, err := domain.NewAmenity(in.Name, in.Description)
	if err != nil {
		return nil, f.fail(ctx, "create amenity", err)
	}

	err = f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		return s.Amenities.Create(ctx, amenity)
	})
	if err != nil {
		return nil, f.fail(ctx, "create amenity", err, "name", amenity.Name)
	}

	f.log(ctx).Info("amenity created", "amenity_id", amenity.ID)
	return amenity, nil
}

func (f *hbnbFacade) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	amenity, err := f.stores().Amenities.GetByID(ctx, id)
	if err != nil {
		return nil, f.fail(ctx, "get amenity", err, "amenity_id", id)
	}
	return amenity, nil
}

func (f *hbnbFacade) GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error) {
	amenities, err := f.stores().Amenities.List(ctx)
	if err != nil {
		return nil, f.fail(ctx, "list amenities", err)
	}
	return amenities, nil
}

func (f *hbnbFacade) UpdateAmenity(
	ctx context.Context,
	id string,
	patch domain.AmenityPatch,
) (*domain.Amenity, error) {
	var amenity *domain.Amenity
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		var err error
		if amenity, err = s.Amenities.GetByID(ctx, id); err != nil {
			return err
		}
		if err := amenity.Apply(patch); err != nil {
			return err
		}
		return s.Amenities.Update(ctx, amenity)
	})
	if err != nil {
		return nil, f.fail(ctx, "update amenity", err, "amenity_id", id)
	}
	return amenity, nil
}
