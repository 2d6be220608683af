package domain

// Review field limits.
const (
	MinRating           = 1
	MaxRating           = 5
	MaxReviewTextLength = 500
)

// Review is a rating and comment left by a user on a place.
type Review struct {
	Base
	Rating  int    `json:"rating"`
	Text    string `json:"text"`
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id"`
}

// ReviewPatch lists the review fields that can be updated. The author and
// the place are fixed at creation.
type ReviewPatch struct {
	Rating *int
	Text   *string
}

// NewReview creates a review by author on place and registers it on both.
// Cross-entity rules (self-review, duplicates) need the store and are
// enforced by the service layer.
func NewReview(rating int, text string, author *User, place *Place) (*Review, error) {
	if author == nil || author.ID == "" {
		return nil, NewValidationError("user_id", "is required", ErrRequired)
	}
	if place == nil || place.ID == "" {
		return nil, NewValidationError("place_id", "is required", ErrRequired)
	}

	r := &Review{
		Base:    NewBase(),
		UserID:  author.ID,
		PlaceID: place.ID,
	}
	if err := checkRating(rating); err != nil {
		return nil, err
	}
	r.Rating = rating

	var err error
	if r.Text, err = requiredString("text", text, MaxReviewTextLength); err != nil {
		return nil, err
	}

	author.AddReview(r.ID)
	place.AddReview(r.ID)
	return r, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if err := r.validateBase(); err != nil {
		return err
	}
	if err := checkRating(r.Rating); err != nil {
		return err
	}
	if _, err := requiredString("text", r.Text, MaxReviewTextLength); err != nil {
		return err
	}
	if err := requiredID("user_id", r.UserID); err != nil {
		return err
	}
	return requiredID("place_id", r.PlaceID)
}

// SetRating validates and sets the rating.
func (r *Review) SetRating(rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}
	r.Rating = rating
	r.Touch()
	return nil
}

// SetText validates and sets the review text.
func (r *Review) SetText(text string) error {
	v, err := requiredString("text", text, MaxReviewTextLength)
	if err != nil {
		return err
	}
	r.Text = v
	r.Touch()
	return nil
}

// Apply applies the patch atomically.
func (r *Review) Apply(p ReviewPatch) error {
	next := r.Clone()
	if p.Rating != nil {
		if err := next.SetRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.Text != nil {
		if err := next.SetText(*p.Text); err != nil {
			return err
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.Touch()
	*r = *next
	return nil
}

// Clone returns a copy of the review.
func (r *Review) Clone() *Review {
	c := *r
	return &c
}

func checkRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return NewValidationError("rating", "must be between 1 and 5", ErrOutOfRange)
	}
	return nil
}
