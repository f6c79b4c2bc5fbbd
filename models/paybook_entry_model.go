package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaybookEntry is the immutable audit row written exactly once per settled
// booking. Its unique booking_id index is the settlement idempotency fence.
type PaybookEntry struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID          uuid.UUID `gorm:"not null;unique" json:"booking_id"`
	MentorID           uuid.UUID `gorm:"not null;index" json:"mentor_id"`
	AmountPaid         float64   `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	CommissionDeducted float64   `gorm:"type:numeric(10,2);not null" json:"commission_deducted"`
	CreditedToWallet   float64   `gorm:"type:numeric(10,2);not null" json:"credited_to_wallet"`
	ReceiptNumber      string    `gorm:"size:20;unique" json:"receipt_number"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`
	Mentor  User    `gorm:"foreignkey:MentorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *PaybookEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
