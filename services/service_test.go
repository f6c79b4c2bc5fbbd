package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menttalk/mentor_marketplace/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database shared by every connection in the
// test. A single open connection serializes concurrent transactions the way
// row locks do in production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Mentor{},
		&models.Availability{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.Payment{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.CommissionSetting{},
		&models.PaybookEntry{},
		&models.PayoutRequest{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := models.User{
		FullName: "Test " + role,
		Email:    uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestAvailability(t *testing.T, db *gorm.DB, mentorID uuid.UUID, startHour, endHour int) *models.Availability {
	t.Helper()

	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	availability := models.Availability{
		MentorID:  mentorID,
		Date:      date,
		StartTime: date.Add(time.Duration(startHour) * time.Hour),
		EndTime:   date.Add(time.Duration(endHour) * time.Hour),
	}
	require.NoError(t, db.Create(&availability).Error)
	return &availability
}

func createTestTimeSlot(t *testing.T, db *gorm.DB, mentorID uuid.UUID, durationMinutes int, price float64) *models.TimeSlot {
	t.Helper()

	timeSlot := models.TimeSlot{
		MentorID:        mentorID,
		DurationMinutes: durationMinutes,
		Price:           price,
	}
	require.NoError(t, db.Create(&timeSlot).Error)
	return &timeSlot
}

func createTestCommissionSetting(t *testing.T, db *gorm.DB, commissionType string, value, minimumPayout float64) *models.CommissionSetting {
	t.Helper()

	setting := models.CommissionSetting{
		CommissionType:  commissionType,
		CommissionValue: value,
		MinimumPayout:   minimumPayout,
	}
	require.NoError(t, db.Create(&setting).Error)
	return &setting
}

func fundWallet(t *testing.T, db *gorm.DB, userID uuid.UUID, amount float64) {
	t.Helper()

	err := db.Transaction(func(tx *gorm.DB) error {
		return CreditWallet(tx, userID, amount, "Test top-up")
	})
	require.NoError(t, err)
}

func walletBalance(t *testing.T, db *gorm.DB, userID uuid.UUID) float64 {
	t.Helper()

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", userID).First(&wallet).Error)
	return wallet.Balance
}
