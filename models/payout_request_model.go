package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PayoutStatusPending  = "pending"
	PayoutStatusApproved = "approved"
	PayoutStatusRejected = "rejected"
)

// PayoutRequest debits the mentor wallet optimistically on creation; a
// rejection credits the amount back.
type PayoutRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	MentorID    uuid.UUID  `gorm:"not null;index" json:"mentor_id"`
	Amount      float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes  *string    `gorm:"type:text" json:"admin_notes"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at"`

	Mentor User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
}

func (r *PayoutRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
