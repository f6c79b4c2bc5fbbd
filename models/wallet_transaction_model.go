package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// WalletTransaction is an append-only ledger row. Rows are never updated or
// deleted after creation.
type WalletTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WalletID        uuid.UUID `gorm:"not null;index" json:"wallet_id"`
	Amount          float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	TransactionType string    `gorm:"size:10;not null" json:"transaction_type"`
	Description     string    `gorm:"size:255" json:"description"`

	Wallet Wallet `gorm:"foreignkey:WalletID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
