package services

import (
	"testing"
	"time"

	"github.com/menttalk/mentor_marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowAt(startHour, startMin, endHour, endMin int) *models.Availability {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &models.Availability{
		Date:      date,
		StartTime: time.Date(2026, 9, 10, startHour, startMin, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 10, endHour, endMin, 0, 0, time.UTC),
	}
}

func TestGenerateSlots(t *testing.T) {
	availability := windowAt(9, 0, 10, 0)

	slots, err := GenerateSlots(availability, 30)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, availability.StartTime, slots[0].Start)
	assert.Equal(t, availability.StartTime.Add(30*time.Minute), slots[0].End)
	assert.Equal(t, availability.StartTime.Add(30*time.Minute), slots[1].Start)
	assert.Equal(t, availability.EndTime, slots[1].End)
}

func TestGenerateSlotsPartialTail(t *testing.T) {
	// 9:00-10:15 with 30 minute slots: the 10:00-10:30 slot does not fit.
	slots, err := GenerateSlots(windowAt(9, 0, 10, 15), 30)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestGenerateSlotsDurationTooLong(t *testing.T) {
	slots, err := GenerateSlots(windowAt(9, 0, 9, 30), 45)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsInvalidInputs(t *testing.T) {
	_, err := GenerateSlots(windowAt(9, 0, 10, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = GenerateSlots(windowAt(9, 0, 10, 0), -15)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = GenerateSlots(windowAt(10, 0, 9, 0), 30)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	availability := windowAt(9, 0, 12, 0)

	first, err := GenerateSlots(availability, 60)
	require.NoError(t, err)
	second, err := GenerateSlots(availability, 60)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCreateAvailabilityRejectsOverlap(t *testing.T) {
	db := setupTestDB(t)
	mentor := createTestUser(t, db, "mentor")

	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	_, err := CreateAvailability(db, mentor.ID, date, start, end)
	require.NoError(t, err)

	// Overlapping window on the same date.
	_, err = CreateAvailability(db, mentor.ID, date,
		time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrAvailabilityConflict)

	// Adjacent window is fine: intervals are half-open.
	_, err = CreateAvailability(db, mentor.ID, date,
		time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestCreateAvailabilityInvalidWindow(t *testing.T) {
	db := setupTestDB(t)
	mentor := createTestUser(t, db, "mentor")

	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	_, err := CreateAvailability(db, mentor.ID, date, start, start)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestListAvailableSlotsFiltersBooked(t *testing.T) {
	db := setupTestDB(t)
	mentor := createTestUser(t, db, "mentor")
	mentee := createTestUser(t, db, "mentee")
	availability := createTestAvailability(t, db, mentor.ID, 9, 10)
	timeSlot := createTestTimeSlot(t, db, mentor.ID, 30, 500)

	listings, err := ListAvailableSlots(db, mentor.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Len(t, listings[0].Tiers, 1)
	require.Len(t, listings[0].Tiers[0].Slots, 2)

	// Book the first half hour; the listing should shrink to one slot.
	first := listings[0].Tiers[0].Slots[0]
	_, err = Reserve(db, mentee.ID, mentor.ID, availability.ID, timeSlot.ID, first.Start, first.End)
	require.NoError(t, err)

	listings, err = ListAvailableSlots(db, mentor.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Len(t, listings[0].Tiers[0].Slots, 1)
	assert.Equal(t, first.End, listings[0].Tiers[0].Slots[0].Start)
}
