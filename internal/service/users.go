package service

import (
	"context"
	"errors"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/store"
)

func (f *hbnbFacade) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	user, err := domain.NewUser(in.FirstName, in.LastName, in.Email, in.Password, in.IsAdmin)
	if err != nil {
		return nil, f.fail(ctx, "create user", err, "email", in.Email)
	}

	if err := f.hashPassword(user); err != nil {
		return nil, f.fail(ctx, "create user", err)
	}

	err = f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		if err := checkEmailFree(ctx, s, user.Email, ""); err != nil {
			return err
		}
		return s.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, f.fail(ctx, "create user", err, "email", user.Email)
	}

	f.log(ctx).Info("user created", "user_id", user.ID)
	return user, nil
}

func (f *hbnbFacade) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := f.stores().Users.GetByID(ctx, id)
	if err != nil {
		return nil, f.fail(ctx, "get user", err, "user_id", id)
	}
	return user, nil
}

func (f *hbnbFacade) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := f.stores().Users.List(ctx)
	if err != nil {
		return nil, f.fail(ctx, "list users", err)
	}
	return users, nil
}

func (f *hbnbFacade) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	var user *domain.User
	err := f.backend.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		var err error
		if user, err = s.Users.GetByID(ctx, id); err != nil {
			return err
		}
		if err := user.Apply(patch); err != nil {
			return err
		}
		if patch.Email != nil {
			if err := checkEmailFree(ctx, s, user.Email, user.ID); err != nil {
				return err
			}
		}
		if patch.Password != nil {
			if err := f.hashPassword(user); err != nil {
				return err
			}
		}
		return s.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, f.fail(ctx, "update user", err, "user_id", id)
	}
	return user, nil
}

func (f *hbnbFacade) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := f.stores().Users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		_ = f.hasher.Compare(f.dummyHash, password)
		return nil, f.fail(ctx, "authenticate", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, f.fail(ctx, "authenticate", err)
	}

	if err := f.hasher.Compare(user.HashedPassword, password); err != nil {
		return nil, f.fail(ctx, "authenticate", ErrInvalidCredentials, "user_id", user.ID)
	}
	return user, nil
}

// hashPassword replaces the user's plaintext password with its hash.
func (f *hbnbFacade) hashPassword(user *domain.User) error {
	hash, err := f.hasher.Hash(user.Password)
	if err != nil {
		return err
	}
	return user.SetHashedPassword(hash)
}

// checkEmailFree returns store.ErrEmailExists if a user other than exceptID
// already has the email.
func checkEmailFree(ctx context.Context, s store.Stores, email, exceptID string) error {
	existing, err := s.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return store.ErrEmailExists
	}
	return nil
}
