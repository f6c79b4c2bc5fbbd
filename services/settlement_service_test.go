package services

import (
	"testing"
	"time"

	"github.com/menttalk/mentor_marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCalculateCommission(t *testing.T) {
	percentage := models.CommissionSetting{CommissionType: models.CommissionTypePercentage, CommissionValue: 10}
	assert.Equal(t, 50.0, percentage.CalculateCommission(500))
	assert.Equal(t, 0.0, percentage.CalculateCommission(0))

	fixed := models.CommissionSetting{CommissionType: models.CommissionTypeFixed, CommissionValue: 75}
	assert.Equal(t, 75.0, fixed.CalculateCommission(500))

	negativeFixed := models.CommissionSetting{CommissionType: models.CommissionTypeFixed, CommissionValue: -20}
	assert.Equal(t, 0.0, negativeFixed.CalculateCommission(500))

	unknown := models.CommissionSetting{CommissionType: "flat_rate", CommissionValue: 30}
	assert.Equal(t, 0.0, unknown.CalculateCommission(500))
}

func settleTestBooking(t *testing.T, db *gorm.DB) *models.Booking {
	t.Helper()

	mentor := createTestUser(t, db, "mentor")
	mentee := createTestUser(t, db, "mentee")
	availability := createTestAvailability(t, db, mentor.ID, 9, 10)
	timeSlot := createTestTimeSlot(t, db, mentor.ID, 60, 500)

	booking, err := Reserve(db, mentee.ID, mentor.ID, availability.ID, timeSlot.ID,
		availability.StartTime, availability.EndTime)
	require.NoError(t, err)
	return booking
}

func TestSettlePercentageCommission(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	booking := settleTestBooking(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Settle(tx, booking, 500, setting)
	})
	require.NoError(t, err)

	assert.Equal(t, 450.0, walletBalance(t, db, booking.MentorID))

	var entry models.PaybookEntry
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&entry).Error)
	assert.Equal(t, 500.0, entry.AmountPaid)
	assert.Equal(t, 50.0, entry.CommissionDeducted)
	assert.Equal(t, 450.0, entry.CreditedToWallet)
	assert.Contains(t, entry.ReceiptNumber, "RCPT-")
}

func TestSettleFixedCommission(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypeFixed, 75, 500)
	booking := settleTestBooking(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Settle(tx, booking, 500, setting)
	})
	require.NoError(t, err)

	assert.Equal(t, 425.0, walletBalance(t, db, booking.MentorID))
}

func TestSettleIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)
	booking := settleTestBooking(t, db)

	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			return Settle(tx, booking, 500, setting)
		})
		require.NoError(t, err)
	}

	// One credit, one entry, no matter how many times settlement runs.
	assert.Equal(t, 450.0, walletBalance(t, db, booking.MentorID))

	var count int64
	require.NoError(t, db.Model(&models.PaybookEntry{}).Where("booking_id = ?", booking.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleWithoutConfiguration(t *testing.T) {
	db := setupTestDB(t)
	booking := settleTestBooking(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Settle(tx, booking, 500, nil)
	})
	assert.ErrorIs(t, err, ErrConfigurationMissing)

	// No wallet credit and no audit row.
	var count int64
	require.NoError(t, db.Model(&models.PaybookEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReceiptNumbersAreUnique(t *testing.T) {
	db := setupTestDB(t)
	setting := createTestCommissionSetting(t, db, models.CommissionTypePercentage, 10, 500)

	mentor := createTestUser(t, db, "mentor")
	mentee := createTestUser(t, db, "mentee")
	availability := createTestAvailability(t, db, mentor.ID, 9, 12)
	timeSlot := createTestTimeSlot(t, db, mentor.ID, 60, 500)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		start := availability.StartTime.Add(time.Duration(i) * time.Hour)
		booking, err := Reserve(db, mentee.ID, mentor.ID, availability.ID, timeSlot.ID, start, start.Add(time.Hour))
		require.NoError(t, err)

		err = db.Transaction(func(tx *gorm.DB) error {
			return Settle(tx, booking, 500, setting)
		})
		require.NoError(t, err)

		var entry models.PaybookEntry
		require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&entry).Error)
		assert.False(t, seen[entry.ReceiptNumber])
		seen[entry.ReceiptNumber] = true
	}
}
