package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/models"
	"gorm.io/gorm"
)

// SlotWindow is one bookable interval derived from an availability window.
type SlotWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GenerateSlots divides an availability window into a duration-sized grid.
// Pure function of its inputs: calling it twice yields the same sequence.
// Returns an empty slice when the duration does not fit at least once.
func GenerateSlots(availability *models.Availability, durationMinutes int) ([]SlotWindow, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	if !availability.EndTime.After(availability.StartTime) {
		return nil, ErrInvalidWindow
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := []SlotWindow{}
	for start := availability.StartTime; !start.Add(duration).After(availability.EndTime); start = start.Add(duration) {
		slots = append(slots, SlotWindow{Start: start, End: start.Add(duration)})
	}
	return slots, nil
}

// HasBookingConflict reports whether any non-terminal booking for the
// mentor+availability pair overlaps [start, end). Half-open interval overlap:
// existing.start < end AND existing.end > start.
func HasBookingConflict(db *gorm.DB, mentorID, availabilityID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Booking{}).
		Where("mentor_id = ? AND availability_id = ?", mentorID, availabilityID).
		Where("booking_status IN ?", []string{models.BookingStatusPending, models.BookingStatusApproved}).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAvailability persists a new window after rejecting overlaps with the
// mentor's existing windows on the same date.
func CreateAvailability(db *gorm.DB, mentorID uuid.UUID, date, start, end time.Time) (*models.Availability, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	availability := models.Availability{
		MentorID:  mentorID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Availability{}).
			Where("mentor_id = ? AND date = ?", mentorID, date).
			Where("start_time < ? AND end_time > ?", end, start).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAvailabilityConflict
		}
		return tx.Create(&availability).Error
	})
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

// MentorSlotListing groups the generated slots of one availability window by
// time-slot pricing tier, with already-booked intervals filtered out.
type MentorSlotListing struct {
	AvailabilityID uuid.UUID  `json:"availability_id"`
	Date           time.Time  `json:"date"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	Tiers          []SlotTier `json:"slots"`
}

type SlotTier struct {
	TimeSlotID      uuid.UUID    `json:"time_slot_id"`
	DurationMinutes int          `json:"duration_minutes"`
	Price           float64      `json:"price"`
	Slots           []SlotWindow `json:"slots"`
}

// ListAvailableSlots combines a mentor's availability windows with their
// pricing tiers and drops intervals held by pending or approved bookings.
func ListAvailableSlots(db *gorm.DB, mentorID uuid.UUID) ([]MentorSlotListing, error) {
	var availabilities []models.Availability
	if err := db.Where("mentor_id = ?", mentorID).Order("date, start_time").Find(&availabilities).Error; err != nil {
		return nil, err
	}

	var timeSlots []models.TimeSlot
	if err := db.Where("mentor_id = ?", mentorID).Find(&timeSlots).Error; err != nil {
		return nil, err
	}

	listings := []MentorSlotListing{}
	for i := range availabilities {
		availability := availabilities[i]
		tiers := []SlotTier{}
		for _, timeSlot := range timeSlots {
			generated, err := GenerateSlots(&availability, timeSlot.DurationMinutes)
			if err != nil {
				return nil, err
			}
			free := []SlotWindow{}
			for _, slot := range generated {
				conflict, err := HasBookingConflict(db, mentorID, availability.ID, slot.Start, slot.End)
				if err != nil {
					return nil, err
				}
				if !conflict {
					free = append(free, slot)
				}
			}
			if len(free) > 0 {
				tiers = append(tiers, SlotTier{
					TimeSlotID:      timeSlot.ID,
					DurationMinutes: timeSlot.DurationMinutes,
					Price:           timeSlot.Price,
					Slots:           free,
				})
			}
		}
		if len(tiers) > 0 {
			listings = append(listings, MentorSlotListing{
				AvailabilityID: availability.ID,
				Date:           availability.Date,
				StartTime:      availability.StartTime,
				EndTime:        availability.EndTime,
				Tiers:          tiers,
			})
		}
	}
	return listings, nil
}
