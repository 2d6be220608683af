package domain

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// User field limits.
const (
	MaxNameLength     = 50
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt's practical limit
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered user of the HBnB application.
// Places and reviews are back-references: the authoritative link lives on
// Place.OwnerID and Review.UserID.
type User struct {
	Base
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Password       string   `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string   `json:"-"` // Never expose password hash in JSON
	IsAdmin        bool     `json:"is_admin"`
	PlaceIDs       []string `json:"-"`
	ReviewIDs      []string `json:"-"`
}

// UserPatch lists the user fields that can be updated. Nil fields are left
// unchanged.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// NewUser creates a new User with a fresh ID and timestamps.
// Names are trimmed and the email is normalized to lowercase.
//
// NOTE: the plaintext password is only held until the caller hashes it with
// SetHashedPassword. It is never serialized.
func NewUser(firstName, lastName, email, password string, isAdmin bool) (*User, error) {
	u := &User{
		Base:     NewBase(),
		IsAdmin:  isAdmin,
		Password: password,
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Email = NormalizeEmail(email)

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if err := u.validateBase(); err != nil {
		return err
	}
	if _, err := requiredString("first_name", u.FirstName, MaxNameLength); err != nil {
		return err
	}
	if _, err := requiredString("last_name", u.LastName, MaxNameLength); err != nil {
		return err
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}

	// A new or updated user carries a plaintext password; a stored user only
	// has the hash.
	if u.Password != "" {
		return validatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrRequired)
	}
	return nil
}

// SetFirstName validates and sets the first name.
func (u *User) SetFirstName(name string) error {
	v, err := requiredString("first_name", name, MaxNameLength)
	if err != nil {
		return err
	}
	u.FirstName = v
	u.Touch()
	return nil
}

// SetLastName validates and sets the last name.
func (u *User) SetLastName(name string) error {
	v, err := requiredString("last_name", name, MaxNameLength)
	if err != nil {
		return err
	}
	u.LastName = v
	u.Touch()
	return nil
}

// SetEmail normalizes, validates and sets the email.
// Uniqueness is not checked here; it needs the store.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetPassword validates a new plaintext password. The caller must hash it
// with SetHashedPassword before the user is stored.
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	u.Password = password
	u.Touch()
	return nil
}

// SetHashedPassword stores the password hash and clears the plaintext.
func (u *User) SetHashedPassword(hash string) error {
	if hash == "" {
		return NewValidationError("password", "hash cannot be empty", ErrRequired)
	}
	u.HashedPassword = hash
	u.Password = ""
	return nil
}

// SetAdmin sets the admin flag.
func (u *User) SetAdmin(isAdmin bool) {
	if u.IsAdmin == isAdmin {
		return
	}
	u.IsAdmin = isAdmin
	u.Touch()
}

// Apply applies the patch atomically: it is validated on a copy and only
// committed when every field is valid.
func (u *User) Apply(p UserPatch) error {
	next := u.Clone()
	if p.FirstName != nil {
		if err := next.SetFirstName(*p.FirstName); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := next.SetLastName(*p.LastName); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := next.SetEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := next.SetPassword(*p.Password); err != nil {
			return err
		}
	}
	if p.IsAdmin != nil {
		next.SetAdmin(*p.IsAdmin)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.Touch()
	*u = *next
	return nil
}

// AddPlace registers a place owned by this user. Adding it twice is a no-op.
func (u *User) AddPlace(placeID string) {
	var changed bool
	if u.PlaceIDs, changed = addID(u.PlaceIDs, placeID); changed {
		u.Touch()
	}
}

// RemovePlace removes a place back-reference. Removing an absent place is a no-op.
func (u *User) RemovePlace(placeID string) {
	var changed bool
	if u.PlaceIDs, changed = removeID(u.PlaceIDs, placeID); changed {
		u.Touch()
	}
}

// AddReview registers a review written by this user.
func (u *User) AddReview(reviewID string) {
	var changed bool
	if u.ReviewIDs, changed = addID(u.ReviewIDs, reviewID); changed {
		u.Touch()
	}
}

// RemoveReview removes a review back-reference.
func (u *User) RemoveReview(reviewID string) {
	var changed bool
	if u.ReviewIDs, changed = removeID(u.ReviewIDs, reviewID); changed {
		u.Touch()
	}
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.PlaceIDs = slices.Clone(u.PlaceIDs)
	c.ReviewIDs = slices.Clone(u.ReviewIDs)
	return &c
}

func validateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "is required", ErrRequired)
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError("email", "must be a valid email address", ErrInvalidEmail)
	}
	return nil
}

// validatePassword counts characters for the minimum and bytes for the
// maximum, which is bcrypt's input limit.
func validatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "is required", ErrRequired)
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return NewValidationError("password", "must be at least 8 characters long", ErrInvalidPassword)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", "must be at most 72 bytes long", ErrInvalidPassword)
	}
	return nil
}
