package utils

import (
	"math/rand"
	"time"

	"github.com/menttalk/mentor_marketplace/models"
	"gorm.io/gorm"
)

const receiptNumberLength = 10
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueReceiptNumber returns a receipt number not yet used by any
// paybook entry. Queried through tx so settlement sees its own writes.
func GenerateUniqueReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptNumberLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		number := "RCPT-" + string(b)

		var entry models.PaybookEntry
		err := tx.Where("receipt_number = ?", number).First(&entry).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
