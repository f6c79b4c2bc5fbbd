package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommissionTypePercentage = "percentage"
	CommissionTypeFixed      = "fixed"
)

// CommissionSetting is a singleton; startup validation rejects databases with
// more than one row. Settlement reads it through the caller, never as a
// queried global.
type CommissionSetting struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CommissionType  string    `gorm:"size:20;not null;default:'percentage'" json:"commission_type"`
	CommissionValue float64   `gorm:"type:numeric(10,2);not null;default:0" json:"commission_value"`
	MinimumPayout   float64   `gorm:"type:numeric(10,2);not null;default:500" json:"minimum_payout"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (s *CommissionSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CalculateCommission returns the platform fee for amount. Percentage type is
// linear, fixed type constant and clamped to zero; an unknown type charges
// nothing.
func (s *CommissionSetting) CalculateCommission(amount float64) float64 {
	switch s.CommissionType {
	case CommissionTypePercentage:
		return s.CommissionValue / 100 * amount
	case CommissionTypeFixed:
		if s.CommissionValue < 0 {
			return 0
		}
		return s.CommissionValue
	}
	return 0
}
