package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending  = "pending"
	BookingStatusApproved = "approved"
	BookingStatusRejected = "rejected"
)

// Booking reserves [StartTime, EndTime) on a mentor availability window.
// PaymentStatus is the canonical "paid" flag; WalletPaymentStatus only records
// that the wallet path funded it and is never read by control flow.
type Booking struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID       uuid.UUID `gorm:"not null;index" json:"mentor_id"`
	MenteeID       uuid.UUID `gorm:"not null;index" json:"mentee_id"`
	AvailabilityID uuid.UUID `gorm:"not null;index" json:"availability_id"`
	TimeSlotID     uuid.UUID `gorm:"not null" json:"time_slot_id"`
	StartTime      time.Time `gorm:"not null" json:"start_time"`
	EndTime        time.Time `gorm:"not null" json:"end_time"`

	BookingStatus       string  `gorm:"size:20;not null;default:'pending'" json:"booking_status"`
	PaymentStatus       bool    `gorm:"not null;default:false" json:"payment_status"`
	WalletPaymentStatus bool    `gorm:"not null;default:false" json:"wallet_payment_status"`
	MeetingLink         *string `gorm:"size:255" json:"meeting_link"`

	Mentor       User         `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
	Mentee       User         `gorm:"foreignkey:MenteeID" json:"mentee,omitempty"`
	Availability Availability `gorm:"foreignkey:AvailabilityID" json:"availability,omitempty"`
	TimeSlot     TimeSlot     `gorm:"foreignkey:TimeSlotID" json:"time_slot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
