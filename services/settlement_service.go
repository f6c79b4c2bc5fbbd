package services

import (
	"errors"
	"fmt"

	"github.com/menttalk/mentor_marketplace/models"
	"github.com/menttalk/mentor_marketplace/utils"
	"gorm.io/gorm"
)

// Settle computes the platform commission for a paid booking, credits the
// mentor wallet with the remainder and writes the paybook audit row. It runs
// inside the caller's transaction and executes at most once per booking: an
// existing paybook entry makes it a no-op, and the unique booking_id index
// backstops concurrent callers that both pass the existence check.
func Settle(tx *gorm.DB, booking *models.Booking, amountPaid float64, setting *models.CommissionSetting) error {
	if setting == nil {
		return ErrConfigurationMissing
	}

	var existing models.PaybookEntry
	err := tx.Where("booking_id = ?", booking.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	commission := setting.CalculateCommission(amountPaid)
	credited := amountPaid - commission

	description := fmt.Sprintf("Mentorship booking %s settled", booking.ID)
	if err := CreditWallet(tx, booking.MentorID, credited, description); err != nil {
		return err
	}

	receipt, err := utils.GenerateUniqueReceiptNumber(tx)
	if err != nil {
		return err
	}

	entry := models.PaybookEntry{
		BookingID:          booking.ID,
		MentorID:           booking.MentorID,
		AmountPaid:         amountPaid,
		CommissionDeducted: commission,
		CreditedToWallet:   credited,
		ReceiptNumber:      receipt,
	}
	if err := tx.Create(&entry).Error; err != nil {
		// A concurrent settlement won the unique index race. Fail the whole
		// transaction so this caller's wallet credit rolls back with it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyProcessed
		}
		return err
	}
	return nil
}
