package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"gorm.io/gorm"
)

// UnpaidBookingTimeout is how long a pending booking may stay unpaid before
// it is deleted and its slot freed.
const UnpaidBookingTimeout = 60 * time.Second

// Expiry is the process-wide scheduler, wired up in main. Handlers schedule a
// deletion when a booking is created and cancel it when payment confirms.
var Expiry *ExpiryScheduler

// ExpiryScheduler holds one cancellable timer per unpaid booking. Timers are
// best effort; the cron reaper and the startup rescan cover bookings whose
// timer was lost to a crash.
type ExpiryScheduler struct {
	db      *gorm.DB
	timeout time.Duration

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
}

func NewExpiryScheduler(db *gorm.DB, timeout time.Duration) *ExpiryScheduler {
	return &ExpiryScheduler{
		db:      db,
		timeout: timeout,
		timers:  make(map[uuid.UUID]*time.Timer),
	}
}

// Schedule arms the unpaid-expiry timer for a freshly created booking.
func (s *ExpiryScheduler) Schedule(bookingID uuid.UUID) {
	s.ScheduleAfter(bookingID, s.timeout)
}

// ScheduleAfter arms the timer with an explicit delay; the startup rescan
// uses the remaining portion of the timeout.
func (s *ExpiryScheduler) ScheduleAfter(bookingID uuid.UUID, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.timers[bookingID]; ok {
		existing.Stop()
	}
	s.timers[bookingID] = time.AfterFunc(delay, func() { s.fire(bookingID) })
}

// Cancel disarms the timer once payment has confirmed. Firing anyway is
// harmless: expiry re-checks payment status inside its transaction.
func (s *ExpiryScheduler) Cancel(bookingID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[bookingID]; ok {
		timer.Stop()
		delete(s.timers, bookingID)
	}
}

func (s *ExpiryScheduler) fire(bookingID uuid.UUID) {
	s.mu.Lock()
	delete(s.timers, bookingID)
	s.mu.Unlock()

	deleted, err := ExpireIfUnpaid(s.db, bookingID)
	if err != nil {
		log.Printf("🔥 Failed to expire unpaid booking %s: %v", bookingID, err)
		return
	}
	if deleted {
		log.Printf("Deleted unpaid booking %s after timeout", bookingID)
	}
}

// Rescan re-arms timers for pending unpaid bookings found at startup,
// expiring immediately those already past the timeout.
func (s *ExpiryScheduler) Rescan() error {
	var bookings []models.Booking
	err := s.db.
		Where("booking_status = ? AND payment_status = ?", models.BookingStatusPending, false).
		Find(&bookings).Error
	if err != nil {
		return err
	}

	now := time.Now()
	for _, booking := range bookings {
		deadline := booking.CreatedAt.Add(s.timeout)
		if deadline.After(now) {
			s.ScheduleAfter(booking.ID, deadline.Sub(now))
		} else {
			if _, err := ExpireIfUnpaid(s.db, booking.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExpireIfUnpaid deletes the booking and its payment record if the booking is
// still unpaid. The payment-status re-check happens inside the same
// transaction as the delete, so a payment that confirms concurrently wins the
// race and the booking survives.
func ExpireIfUnpaid(db *gorm.DB, bookingID uuid.UUID) (bool, error) {
	deleted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := database.LockForUpdate(tx).First(&booking, "id = ?", bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if booking.PaymentStatus {
			return nil
		}

		// Booking owns its payment record.
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// ReapExpiredBookings deletes pending unpaid bookings older than the timeout.
// Run from cron as the durable backstop for lost in-process timers.
func ReapExpiredBookings(db *gorm.DB, timeout time.Duration) (int, error) {
	var bookings []models.Booking
	cutoff := time.Now().Add(-timeout)
	err := db.
		Where("booking_status = ? AND payment_status = ? AND created_at < ?", models.BookingStatusPending, false, cutoff).
		Find(&bookings).Error
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, booking := range bookings {
		deleted, err := ExpireIfUnpaid(db, booking.ID)
		if err != nil {
			return reaped, err
		}
		if deleted {
			reaped++
		}
	}
	return reaped, nil
}
