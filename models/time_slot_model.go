package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSlot is a pricing tier a mentor offers; it is not tied to a date.
type TimeSlot struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID        uuid.UUID `gorm:"not null;index" json:"-"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"type:numeric(10,2);not null" json:"price"`

	Mentor User `gorm:"foreignkey:MentorID" json:"-"`
}

func (t *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
