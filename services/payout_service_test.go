package services

import (
	"testing"

	"github.com/menttalk/mentor_marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPayoutHoldsFunds(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	request, err := RequestPayout(db, mentor.ID, 800, setting)
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusPending, request.Status)
	assert.Equal(t, 800.0, request.Amount)
	assert.Equal(t, 1200.0, walletBalance(t, db, mentor.ID))
}

func TestRequestPayoutBelowMinimum(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	_, err := RequestPayout(db, mentor.ID, 499, setting)
	assert.ErrorIs(t, err, ErrBelowMinimumPayout)
	assert.Equal(t, 2000.0, walletBalance(t, db, mentor.ID))
}

func TestRequestPayoutInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 600)

	_, err := RequestPayout(db, mentor.ID, 700, setting)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The rolled-back debit left no request behind.
	var count int64
	require.NoError(t, db.Model(&models.PayoutRequest{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 600.0, walletBalance(t, db, mentor.ID))
}

func TestRequestPayoutWithoutConfiguration(t *testing.T) {
	db := setupTestDB(t)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	_, err := RequestPayout(db, mentor.ID, 800, nil)
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestResolvePayoutApprove(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	request, err := RequestPayout(db, mentor.ID, 800, setting)
	require.NoError(t, err)

	resolved, err := ResolvePayout(db, request.ID, models.PayoutStatusApproved, "wire sent")
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusApproved, resolved.Status)
	require.NotNil(t, resolved.ProcessedAt)
	require.NotNil(t, resolved.AdminNotes)
	assert.Equal(t, "wire sent", *resolved.AdminNotes)

	// The held amount stays out of the wallet.
	assert.Equal(t, 1200.0, walletBalance(t, db, mentor.ID))
}

func TestResolvePayoutRejectRefunds(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	request, err := RequestPayout(db, mentor.ID, 800, setting)
	require.NoError(t, err)

	resolved, err := ResolvePayout(db, request.ID, models.PayoutStatusRejected, "bank details invalid")
	require.NoError(t, err)

	assert.Equal(t, models.PayoutStatusRejected, resolved.Status)
	assert.Equal(t, 2000.0, walletBalance(t, db, mentor.ID))

	// The refund shows up in the ledger.
	var refund models.WalletTransaction
	err = db.Where("description = ?", "Payout Rejection Refund").First(&refund).Error
	require.NoError(t, err)
	assert.Equal(t, 800.0, refund.Amount)
	assert.Equal(t, models.TransactionTypeCredit, refund.TransactionType)
}

func TestResolvePayoutIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	request, err := RequestPayout(db, mentor.ID, 800, setting)
	require.NoError(t, err)

	_, err = ResolvePayout(db, request.ID, models.PayoutStatusRejected, "")
	require.NoError(t, err)

	// A second resolution must not refund twice.
	_, err = ResolvePayout(db, request.ID, models.PayoutStatusRejected, "")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, 2000.0, walletBalance(t, db, mentor.ID))
}

func TestResolvePayoutInvalidAction(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	mentor := createTestUser(t, db, "mentor")
	fundWallet(t, db, mentor.ID, 2000)

	request, err := RequestPayout(db, mentor.ID, 800, setting)
	require.NoError(t, err)

	_, err = ResolvePayout(db, request.ID, "cancelled", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
