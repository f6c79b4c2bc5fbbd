package database

import (
	"errors"
	"fmt"
	"log"

	config "github.com/menttalk/mentor_marketplace/configs"
	"github.com/menttalk/mentor_marketplace/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
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
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

// ValidateCommissionSetting enforces the commission configuration singleton at
// startup. Zero rows is allowed; settlement then refuses to run until an
// admin creates one.
func ValidateCommissionSetting() error {
	var count int64
	if err := DB.Model(&models.CommissionSetting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 1 {
		return errors.New("multiple commission setting rows found; exactly one is allowed")
	}
	if count == 0 {
		log.Println("⚠️ No commission setting configured; settlement is disabled until one is created")
	}
	return nil
}

// LockForUpdate adds a row-level FOR UPDATE lock on dialects that support it.
// SQLite, used by the test suite, has a single writer and rejects the clause.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
