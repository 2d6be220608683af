package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// now returns the current time in UTC. Tests may replace it to control
// timestamps.
var now = func() time.Time {
	return time.Now().UTC()
}

// Base holds the identity and timestamps shared by every entity.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase creates a Base with a fresh UUID and both timestamps set to now.
func NewBase() Base {
	t := now()
	return Base{
		ID:        uuid.NewString(),
		CreatedAt: t,
		UpdatedAt: t,
	}
}

// RestoreBase rebuilds a Base from stored values. It is used by store
// implementations when reconstructing entities.
func RestoreBase(id string, createdAt, updatedAt time.Time) Base {
	return Base{
		ID:        id,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}
}

// Touch refreshes UpdatedAt. The timestamp never moves backwards.
func (b *Base) Touch() {
	t := now()
	if t.Before(b.UpdatedAt) {
		t = b.UpdatedAt
	}
	b.UpdatedAt = t
}

// validateBase checks the identity fields common to all entities.
func (b *Base) validateBase() error {
	if b.ID == "" {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if b.CreatedAt.IsZero() {
		return NewValidationError("created_at", "cannot be empty", ErrRequired)
	}
	if b.UpdatedAt.Before(b.CreatedAt) {
		return NewValidationError("updated_at", "cannot precede created_at", ErrOutOfRange)
	}
	return nil
}

// requiredString trims s and checks that it is non-empty and at most max
// characters long.
func requiredString(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewValidationError(field, "is required", ErrRequired)
	}
	if utf8.RuneCountInString(s) > max {
		return "", NewValidationError(field, fmt.Sprintf("must be at most %d characters", max), ErrTooLong)
	}
	return s, nil
}

// optionalString trims s and checks it is at most max characters long.
func optionalString(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		return "", NewValidationError(field, fmt.Sprintf("must be at most %d characters", max), ErrTooLong)
	}
	return s, nil
}

// requiredID checks that a reference ID is set.
func requiredID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError(field, "is required", ErrRequired)
	}
	return nil
}

// inRange checks lo <= v <= hi. NaN is always out of range.
func inRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return NewValidationError(field, fmt.Sprintf("must be between %g and %g", lo, hi), ErrOutOfRange)
	}
	return nil
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// addID appends id to ids unless it is already present. It reports whether
// the slice changed.
func addID(ids []string, id string) ([]string, bool) {
	if slices.Contains(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

// removeID removes id from ids, preserving order. It reports whether the
// slice changed.
func removeID(ids []string, id string) ([]string, bool) {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids, false
	}
	return slices.Delete(ids, i, i+1), true
}
