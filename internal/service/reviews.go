package service

import (
	"context"
	"errors"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/store"
)

func (f *hbnbFacade) CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	var review *domain.Review
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		author, err := resolveUser(ctx, s, "user_id", in.UserID)
		if err != nil {
			return err
		}
		place, err := resolvePlace(ctx, s, "place_id", in.PlaceID)
		if err != nil {
			return err
		}

		if place.OwnerID == author.ID {
			return ErrSelfReview
		}
		_, err = s.Reviews.FindByUserAndPlace(ctx, author.ID, place.ID)
		switch {
		case err == nil:
			return ErrDuplicateReview
		case !errors.Is(err, store.ErrReviewNotFound):
			return err
		}

		if review, err = domain.NewReview(in.Rating, in.Text, author, place); err != nil {
			return err
		}

		if err := s.Reviews.Create(ctx, review); err != nil {
			if errors.Is(err, store.ErrReviewExists) {
				return ErrDuplicateReview
			}
			return err
		}
		if err := s.Users.Update(ctx, author); err != nil {
			return err
		}
		return s.Places.Update(ctx, place)
	})
	if err != nil {
		return nil, f.fail(ctx, "create review", err, "user_id", in.UserID, "place_id", in.PlaceID)
	}

	f.log(ctx).Info("review created", "review_id", review.ID, "place_id", review.PlaceID)
	return review, nil
}

func (f *hbnbFacade) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	review, err := f.stores().Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, f.fail(ctx, "get review", err, "review_id", id)
	}
	return review, nil
}

func (f *hbnbFacade) GetAllReviews(ctx context.Context) ([]*domain.Review, error) {
	reviews, err := f.stores().Reviews.List(ctx)
	if err != nil {
		return nil, f.fail(ctx, "list reviews", err)
	}
	return reviews, nil
}

func (f *hbnbFacade) GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	var reviews []*domain.Review
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		if _, err := s.Places.GetByID(ctx, placeID); err != nil {
			return err
		}
		var err error
		reviews, err = s.Reviews.ListByPlace(ctx, placeID)
		return err
	})
	if err != nil {
		return nil, f.fail(ctx, "list place reviews", err, "place_id", placeID)
	}
	return reviews, nil
}

func (f *hbnbFacade) UpdateReview(
	ctx context.Context,
	id string,
	patch domain.ReviewPatch,
) (*domain.Review, error) {
	var review *domain.Review
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		var err error
		if review, err = s.Reviews.GetByID(ctx, id); err != nil {
			return err
		}
		if err := review.Apply(patch); err != nil {
			return err
		}
		return s.Reviews.Update(ctx, review)
	})
	if err != nil {
		return nil, f.fail(ctx, "update review", err, "review_id", id)
	}
	return review, nil
}

func (f *hbnbFacade) DeleteReview(ctx context.Context, id string) error {
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		review, err := s.Reviews.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Reviews.Delete(ctx, id); err != nil {
			return err
		}

		author, err := s.Users.GetByID(ctx, review.UserID)
		switch {
		case err == nil:
			author.RemoveReview(review.ID)
			if err := s.Users.Update(ctx, author); err != nil {
				return err
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		place, err := s.Places.GetByID(ctx, review.PlaceID)
		switch {
		case err == nil:
			place.RemoveReview(review.ID)
			return s.Places.Update(ctx, place)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return f.fail(ctx, "delete review", err, "review_id", id)
	}

	f.log(ctx).Info("review deleted", "review_id", id)
	return nil
}
