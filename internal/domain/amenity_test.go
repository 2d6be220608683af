package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmenity(t *testing.T) {
	a, err := NewAmenity(" Wi-Fi ", "")
	require.NoError(t, err)
	assert.Equal(t, "Wi-Fi", a.Name)
	assert.Empty(t, a.Description)
	assert.NoError(t, a.Validate())

	_, err = NewAmenity("", "desc")
	assert.ErrorIs(t, err, ErrRequired)
	_, err = NewAmenity(strings.Repeat("n", 51), "")
	assert.ErrorIs(t, err, ErrTooLong)
	_, err = NewAmenity("Pool", strings.Repeat("d", 201))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestAmenityApply(t *testing.T) {
	a, err := NewAmenity("Pool", "")
	require.NoError(t, err)

	desc := "Heated, open all year"
	require.NoError(t, a.Apply(AmenityPatch{Description: &desc}))
	assert.Equal(t, "Pool", a.Name)
	assert.Equal(t, desc, a.Description)

	snapshot := *a.Clone()
	name, empty := "Spa", " "
	assert.ErrorIs(t, a.Apply(AmenityPatch{Name: &empty}), ErrRequired)
	assert.ErrorIs(t, a.Apply(AmenityPatch{Description: &desc, Name: &empty}), ErrRequired)
	assert.Equal(t, snapshot, *a)

	require.NoError(t, a.Apply(AmenityPatch{Name: &name}))
	assert.Equal(t, "Spa", a.Name)
}

func TestBaseTouch(t *testing.T) {
	original := now
	defer func() { now = original }()

	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return t0 }
	b := NewBase()
	assert.Equal(t, t0, b.CreatedAt)
	assert.Equal(t, t0, b.UpdatedAt)

	now = func() time.Time { return t0.Add(time.Hour) }
	b.Touch()
	assert.Equal(t, t0, b.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), b.UpdatedAt)

	// Clock going backwards never moves UpdatedAt back
	now = func() time.Time { return t0.Add(-time.Hour) }
	b.Touch()
	assert.Equal(t, t0.Add(time.Hour), b.UpdatedAt)
}

func TestRestoreBase(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	b := RestoreBase("id-1", created, created.Add(time.Minute))

	assert.Equal(t, "id-1", b.ID)
	assert.Equal(t, time.UTC, b.CreatedAt.Location())
	assert.True(t, b.CreatedAt.Equal(created))
	assert.NoError(t, b.validateBase())

	bad := RestoreBase("id-1", created, created.Add(-time.Minute))
	assert.ErrorIs(t, bad.validateBase(), ErrOutOfRange)
}
