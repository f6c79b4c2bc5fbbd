package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"gorm.io/gorm"
)

// Reserve creates a pending, unpaid booking for [start, end) on the given
// availability window. The availability row is locked for the duration of the
// transaction so the conflict check and the insert are serialized against
// concurrent reservation attempts for the same mentor+availability.
func Reserve(db *gorm.DB, menteeID, mentorID, availabilityID, timeSlotID uuid.UUID, start, end time.Time) (*models.Booking, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var availability models.Availability
		err := database.LockForUpdate(tx).
			First(&availability, "id = ? AND mentor_id = ?", availabilityID, mentorID).Error
		if err != nil {
			return err
		}

		var timeSlot models.TimeSlot
		if err := tx.First(&timeSlot, "id = ? AND mentor_id = ?", timeSlotID, mentorID).Error; err != nil {
			return err
		}

		conflict, err := HasBookingConflict(tx, mentorID, availabilityID, start, end)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotTaken
		}

		booking = models.Booking{
			MentorID:       mentorID,
			MenteeID:       menteeID,
			AvailabilityID: availabilityID,
			TimeSlotID:     timeSlotID,
			StartTime:      start,
			EndTime:        end,
			BookingStatus:  models.BookingStatusPending,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingStatus transitions a booking to approved or rejected. Only the
// owning mentor may do this, and approval requires a meeting link.
func UpdateBookingStatus(db *gorm.DB, mentorUserID, bookingID uuid.UUID, newStatus string, meetingLink *string) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Mentee").First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, err
	}

	if booking.MentorID != mentorUserID {
		return nil, ErrPermissionDenied
	}
	if newStatus != models.BookingStatusApproved && newStatus != models.BookingStatusRejected {
		return nil, ErrInvalidStatus
	}
	if newStatus == models.BookingStatusApproved {
		if meetingLink == nil || *meetingLink == "" {
			return nil, ErrMeetingLinkRequired
		}
		booking.MeetingLink = meetingLink
	}

	booking.BookingStatus = newStatus
	if err := db.Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}
