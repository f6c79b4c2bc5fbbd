package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/models"
	"gorm.io/gorm"
)

// GetOrCreateWallet returns the user's wallet, creating an empty one on first
// access.
func GetOrCreateWallet(db *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{UserID: userID}
	if err := db.Create(&wallet).Error; err != nil {
		// Lost a race against a concurrent first access; the row exists now.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
				return nil, err
			}
			return &wallet, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// CreditWallet adds amount to the user's balance and appends a credit ledger
// row. The balance mutation is a single SQL expression, so concurrent credits
// against the same wallet never lose updates.
func CreditWallet(tx *gorm.DB, userID uuid.UUID, amount float64, description string) error {
	wallet, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return err
	}

	err = tx.Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
	if err != nil {
		return err
	}

	return tx.Create(&models.WalletTransaction{
		WalletID:        wallet.ID,
		Amount:          amount,
		TransactionType: models.TransactionTypeCredit,
		Description:     description,
	}).Error
}

// DebitWallet removes amount from the user's balance and appends a debit
// ledger row. The balance guard runs inside the UPDATE itself: a wallet can
// never go negative, even under concurrent debits.
func DebitWallet(tx *gorm.DB, userID uuid.UUID, amount float64, description string) error {
	wallet, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return err
	}

	result := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", wallet.ID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	return tx.Create(&models.WalletTransaction{
		WalletID:        wallet.ID,
		Amount:          amount,
		TransactionType: models.TransactionTypeDebit,
		Description:     description,
	}).Error
}
