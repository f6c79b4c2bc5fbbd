package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"github.com/menttalk/mentor_marketplace/payments"
	"gorm.io/gorm"
)

// ToMinorUnits converts a price to the gateway's minor currency unit (paise).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// OpenGatewayOrder creates an external order for the booking amount and
// persists the pending Payment row keyed by the returned order id. A gateway
// failure leaves the booking pending and unpaid; the expiry sweep cleans it
// up.
func OpenGatewayOrder(db *gorm.DB, gateway *payments.RazorpayClient, booking *models.Booking, amount float64) (*payments.RazorpayOrder, error) {
	order, err := gateway.CreateOrder(ToMinorUnits(amount), "INR")
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		BookingID:       booking.ID,
		RazorpayOrderID: &order.ID,
		Amount:          amount,
		Status:          models.PaymentStatusPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmGatewayPayment verifies the gateway signature for a booking payment
// and, on a match, atomically marks the payment successful, flips the booking
// to paid and settles the mentor's share.
//
// A returned ErrConfigurationMissing means the payment WAS confirmed and
// committed but settlement could not run; the booking stays paid and
// uncredited until an operator configures commission settings and reconciles.
func ConfirmGatewayPayment(db *gorm.DB, gateway *payments.RazorpayClient, bookingID uuid.UUID, orderID, paymentID, signature string, setting *models.CommissionSetting) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, err
	}

	var payment models.Payment
	if err := db.First(&payment, "booking_id = ?", booking.ID).Error; err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusSuccess {
		return nil, ErrAlreadyProcessed
	}

	if !gateway.VerifySignature(orderID, paymentID, signature) {
		err := db.Model(&payment).Updates(map[string]interface{}{
			"status":              models.PaymentStatusFailed,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
		}).Error
		if err != nil {
			return nil, err
		}
		return nil, ErrSignatureMismatch
	}

	var settlementErr error
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := database.LockForUpdate(tx).First(&booking, "id = ?", booking.ID).Error; err != nil {
			return err
		}

		booking.PaymentStatus = true
		if err := tx.Model(&booking).Update("payment_status", true).Error; err != nil {
			return err
		}

		err := tx.Model(&payment).Updates(map[string]interface{}{
			"status":              models.PaymentStatusSuccess,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
		}).Error
		if err != nil {
			return err
		}

		if err := Settle(tx, &booking, payment.Amount, setting); err != nil {
			if errors.Is(err, ErrConfigurationMissing) {
				// Surfaced, not rolled back: the confirmed payment must
				// survive a missing commission configuration.
				settlementErr = err
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, settlementErr
}

// PayWithWallet is the combined reserve-and-pay flow: it debits the mentee
// wallet, re-checks the slot conflict inside the same transaction (the
// reservation was not pre-validated by Reserve), creates the booking already
// paid and settles the mentor's share, all atomically. Any failure rolls the
// debit back with everything else.
//
// ErrConfigurationMissing follows the ConfirmGatewayPayment contract: payment
// committed, settlement pending.
func PayWithWallet(db *gorm.DB, menteeID, mentorID, availabilityID, timeSlotID uuid.UUID, start, end time.Time, setting *models.CommissionSetting) (*models.Booking, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	var booking models.Booking
	var settlementErr error
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
		amount := timeSlot.Price

		if err := DebitWallet(tx, menteeID, amount, "Mentorship booking payment via wallet"); err != nil {
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
			MentorID:            mentorID,
			MenteeID:            menteeID,
			AvailabilityID:      availabilityID,
			TimeSlotID:          timeSlotID,
			StartTime:           start,
			EndTime:             end,
			BookingStatus:       models.BookingStatusPending,
			PaymentStatus:       true,
			WalletPaymentStatus: true,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		payment := models.Payment{
			BookingID: booking.ID,
			Amount:    amount,
			Status:    models.PaymentStatusSuccess,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if err := Settle(tx, &booking, amount, setting); err != nil {
			if errors.Is(err, ErrConfigurationMissing) {
				settlementErr = err
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, settlementErr
}

// PayBookingWithWallet settles an existing pending booking from the mentee's
// wallet instead of the gateway.
func PayBookingWithWallet(db *gorm.DB, menteeID, bookingID uuid.UUID, setting *models.CommissionSetting) (*models.Booking, error) {
	var booking models.Booking
	var settlementErr error
	err := db.Transaction(func(tx *gorm.DB) error {
		err := database.LockForUpdate(tx).First(&booking, "id = ?", bookingID).Error
		if err != nil {
			return err
		}
		if booking.PaymentStatus {
			return ErrAlreadyProcessed
		}
		if booking.MenteeID != menteeID {
			return ErrPermissionDenied
		}

		var timeSlot models.TimeSlot
		if err := tx.First(&timeSlot, "id = ?", booking.TimeSlotID).Error; err != nil {
			return err
		}
		amount := timeSlot.Price

		if err := DebitWallet(tx, menteeID, amount, "Mentorship booking payment via wallet"); err != nil {
			return err
		}

		booking.PaymentStatus = true
		booking.WalletPaymentStatus = true
		err = tx.Model(&booking).Updates(map[string]interface{}{
			"payment_status":        true,
			"wallet_payment_status": true,
		}).Error
		if err != nil {
			return err
		}

		var payment models.Payment
		err = tx.First(&payment, "booking_id = ?", booking.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			payment = models.Payment{BookingID: booking.ID, Amount: amount, Status: models.PaymentStatusSuccess}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			err = tx.Model(&payment).Updates(map[string]interface{}{
				"status": models.PaymentStatusSuccess,
				"amount": amount,
			}).Error
			if err != nil {
				return err
			}
		}

		if err := Settle(tx, &booking, amount, setting); err != nil {
			if errors.Is(err, ErrConfigurationMissing) {
				settlementErr = err
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, settlementErr
}

// LoadCommissionSetting returns the configured commission row, or nil when
// none exists yet. Callers hand the loaded value to Settle; settlement never
// queries the singleton itself.
func LoadCommissionSetting(db *gorm.DB) (*models.CommissionSetting, error) {
	var setting models.CommissionSetting
	err := db.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
