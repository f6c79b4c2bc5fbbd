package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"gorm.io/gorm"
)

// RequestPayout debits the mentor wallet optimistically and records a pending
// payout request. The amount must meet the configured minimum payout.
func RequestPayout(db *gorm.DB, mentorID uuid.UUID, amount float64, setting *models.CommissionSetting) (*models.PayoutRequest, error) {
	if setting == nil {
		return nil, ErrConfigurationMissing
	}
	if amount < setting.MinimumPayout {
		return nil, ErrBelowMinimumPayout
	}

	var request models.PayoutRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := DebitWallet(tx, mentorID, amount, "Payout Request"); err != nil {
			return err
		}

		request = models.PayoutRequest{
			MentorID:    mentorID,
			Amount:      amount,
			Status:      models.PayoutStatusPending,
			RequestedAt: time.Now(),
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ResolvePayout approves or rejects a pending payout request. Rejection
// credits the held amount back to the mentor wallet. Either way the request
// reaches a terminal state exactly once.
func ResolvePayout(db *gorm.DB, requestID uuid.UUID, action string, adminNotes string) (*models.PayoutRequest, error) {
	if action != models.PayoutStatusApproved && action != models.PayoutStatusRejected {
		return nil, ErrInvalidStatus
	}

	var request models.PayoutRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := database.LockForUpdate(tx).First(&request, "id = ?", requestID).Error; err != nil {
			return err
		}
		if request.Status != models.PayoutStatusPending {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		request.Status = action
		request.ProcessedAt = &now
		if adminNotes != "" {
			request.AdminNotes = &adminNotes
		}
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if action == models.PayoutStatusRejected {
			return CreditWallet(tx, request.MentorID, request.Amount, "Payout Rejection Refund")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}
