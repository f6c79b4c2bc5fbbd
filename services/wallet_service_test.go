package services

import (
	"testing"

	"github.com/menttalk/mentor_marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetOrCreateWalletIsLazy(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "mentee")

	wallet, err := GetOrCreateWallet(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, wallet.Balance)

	again, err := GetOrCreateWallet(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.Wallet{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreditAndDebitReconcile(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "mentee")

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := CreditWallet(tx, user.ID, 1000, "Top-up"); err != nil {
			return err
		}
		return DebitWallet(tx, user.ID, 400, "Purchase")
	})
	require.NoError(t, err)

	assert.Equal(t, 600.0, walletBalance(t, db, user.ID))

	// Balance must equal the signed sum of the ledger.
	var transactions []models.WalletTransaction
	require.NoError(t, db.Find(&transactions).Error)
	require.Len(t, transactions, 2)

	var sum float64
	for _, txn := range transactions {
		if txn.TransactionType == models.TransactionTypeCredit {
			sum += txn.Amount
		} else {
			sum -= txn.Amount
		}
	}
	assert.Equal(t, walletBalance(t, db, user.ID), sum)
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "mentee")
	fundWallet(t, db, user.ID, 100)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DebitWallet(tx, user.ID, 150, "Too much")
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing moved and no debit row was written.
	assert.Equal(t, 100.0, walletBalance(t, db, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).
		Where("transaction_type = ?", models.TransactionTypeDebit).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDebitExactBalance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "mentee")
	fundWallet(t, db, user.ID, 250)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DebitWallet(tx, user.ID, 250, "Everything")
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, walletBalance(t, db, user.ID))
}
