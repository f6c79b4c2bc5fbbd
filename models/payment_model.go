package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "Pending"
	PaymentStatusSuccess = "Success"
	PaymentStatusFailed  = "Failed"
)

// Payment is the one-to-one gateway record for a booking. It is never deleted
// on its own; deleting the owning booking removes it.
type Payment struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID         uuid.UUID `gorm:"not null;unique" json:"booking_id"`
	RazorpayOrderID   *string   `gorm:"size:255;unique" json:"razorpay_order_id"`
	RazorpayPaymentID *string   `gorm:"size:255" json:"razorpay_payment_id"`
	RazorpaySignature *string   `gorm:"size:255" json:"-"`
	Amount            float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status            string    `gorm:"size:20;not null;default:'Pending'" json:"status"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
