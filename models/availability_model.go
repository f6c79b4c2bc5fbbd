package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Availability is a mentor-published time window on a single date. Bookable
// slots are derived from it by striding a TimeSlot duration across the window.
type Availability struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID  uuid.UUID `gorm:"not null;index" json:"-"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Mentor User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
}

func (a *Availability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
