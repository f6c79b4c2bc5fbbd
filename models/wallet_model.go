package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wallet holds a user's balance. Exactly one per user, created lazily on
// first access. The balance must always equal the signed sum of the wallet's
// transaction log.
type Wallet struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID `gorm:"not null;unique" json:"user_id"`
	Balance float64   `gorm:"type:numeric(10,2);not null;default:0.00" json:"balance"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
