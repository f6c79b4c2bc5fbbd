package handlers

import (
	"errors"
	"log"

	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"github.com/menttalk/mentor_marketplace/payments"
	"github.com/menttalk/mentor_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GetWallet(c *fiber.Ctx) error {
	userID := currentUserID(c)

	wallet, err := services.GetOrCreateWallet(database.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch wallet"})
	}

	return c.JSON(wallet)
}

func GetWalletTransactions(c *fiber.Ctx) error {
	userID := currentUserID(c)

	wallet, err := services.GetOrCreateWallet(database.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch wallet"})
	}

	var transactions []models.WalletTransaction
	err = database.DB.
		Where("wallet_id = ?", wallet.ID).
		Order("created_at desc").
		Find(&transactions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}

	return c.JSON(transactions)
}

type AddFundsRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// AddFunds opens a Razorpay order for a wallet top-up. The wallet is credited
// only after VerifyTopUp confirms the checkout signature.
func AddFunds(c *fiber.Ctx) error {
	var req AddFundsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gateway := payments.NewRazorpayClient()
	order, err := gateway.CreateOrder(services.ToMinorUnits(req.Amount), "INR")
	if err != nil {
		log.Printf("🔥 Failed to open top-up order: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment gateway unavailable"})
	}

	return c.JSON(fiber.Map{
		"razorpay_order_id": order.ID,
		"amount":            order.Amount,
		"currency":          order.Currency,
	})
}

type VerifyTopUpRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyTopUp credits the wallet once the top-up checkout signature matches.
// The credited amount comes from the gateway's own order record, never from
// the client.
func VerifyTopUp(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req VerifyTopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gateway := payments.NewRazorpayClient()
	if !gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment signature verification failed"})
	}

	order, err := gateway.FetchOrder(req.RazorpayOrderID)
	if err != nil {
		log.Printf("🔥 Failed to fetch top-up order %s: %v", req.RazorpayOrderID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment gateway unavailable"})
	}
	amount := float64(order.Amount) / 100

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return services.CreditWallet(tx, userID, amount, "Wallet top-up via Razorpay")
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to credit wallet"})
	}

	wallet, err := services.GetOrCreateWallet(database.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch wallet"})
	}

	return c.JSON(fiber.Map{"message": "Wallet funded successfully", "balance": wallet.Balance})
}

type WalletBookingRequest struct {
	MentorID       string `json:"mentor_id" validate:"required,uuid"`
	AvailabilityID string `json:"availability_id" validate:"required,uuid"`
	TimeSlotID     string `json:"time_slot_id" validate:"required,uuid"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
}

// BookWithWallet reserves and pays for a slot in one transaction, funded from
// the mentee's wallet balance.
func BookWithWallet(c *fiber.Ctx) error {
	menteeID := currentUserID(c)

	var req WalletBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	mentorID, _ := uuid.Parse(req.MentorID)
	availabilityID, _ := uuid.Parse(req.AvailabilityID)
	timeSlotID, _ := uuid.Parse(req.TimeSlotID)

	start, err := parseRFC3339(req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	end, err := parseRFC3339(req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	setting, err := services.LoadCommissionSetting(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load commission settings"})
	}

	booking, err := services.PayWithWallet(database.DB, menteeID, mentorID, availabilityID, timeSlotID, start, end, setting)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWindow):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
		case errors.Is(err, services.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient wallet balance"})
		case errors.Is(err, services.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This slot is already booked"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability or time slot not found"})
		case errors.Is(err, services.ErrConfigurationMissing):
			log.Printf("🔥 CRITICAL: wallet payment committed for booking %s but no commission setting exists, settlement deferred", booking.ID)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"message": "Booking paid. Mentor settlement pending platform configuration.",
				"booking": booking,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to book with wallet"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Booking paid from wallet", "booking": booking})
}

// PayBookingWithWallet settles an existing pending booking from the wallet
// instead of completing the Razorpay checkout.
func PayBookingWithWallet(c *fiber.Ctx) error {
	menteeID := currentUserID(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	setting, err := services.LoadCommissionSetting(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load commission settings"})
	}

	booking, err := services.PayBookingWithWallet(database.DB, menteeID, bookingID, setting)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		case errors.Is(err, services.ErrAlreadyProcessed):
			return c.JSON(fiber.Map{"message": "Booking already paid"})
		case errors.Is(err, services.ErrPermissionDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only pay for your own bookings"})
		case errors.Is(err, services.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient wallet balance"})
		case errors.Is(err, services.ErrConfigurationMissing):
			log.Printf("🔥 CRITICAL: wallet payment committed for booking %s but no commission setting exists, settlement deferred", bookingID)
			services.Expiry.Cancel(bookingID)
			return c.JSON(fiber.Map{
				"message": "Booking paid. Mentor settlement pending platform configuration.",
				"booking": booking,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to pay booking from wallet"})
	}

	services.Expiry.Cancel(booking.ID)

	return c.JSON(fiber.Map{"message": "Booking paid from wallet", "booking": booking})
}
