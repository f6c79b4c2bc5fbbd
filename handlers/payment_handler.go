package handlers

import (
	"errors"
	"log"

	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"github.com/menttalk/mentor_marketplace/notifications"
	"github.com/menttalk/mentor_marketplace/payments"
	"github.com/menttalk/mentor_marketplace/services"
	"github.com/menttalk/mentor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerifyPaymentRequest struct {
	BookingID         string `json:"booking_id" validate:"required,uuid"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPayment confirms a Razorpay checkout for a booking: signature check,
// booking marked paid, mentor settlement, and the expiry timer cancelled.
func VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	setting, err := services.LoadCommissionSetting(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load commission settings"})
	}

	gateway := payments.NewRazorpayClient()
	booking, err := services.ConfirmGatewayPayment(
		database.DB, gateway, bookingID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature,
		setting,
	)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking or payment not found"})
		case errors.Is(err, services.ErrSignatureMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment signature verification failed"})
		case errors.Is(err, services.ErrAlreadyProcessed):
			return c.JSON(fiber.Map{"message": "Payment already verified"})
		case errors.Is(err, services.ErrConfigurationMissing):
			// Payment committed; mentor credit is deferred until commission
			// settings exist.
			log.Printf("🔥 CRITICAL: payment confirmed for booking %s but no commission setting exists, settlement deferred", bookingID)
			services.Expiry.Cancel(bookingID)
			return c.JSON(fiber.Map{
				"message": "Payment verified. Mentor settlement pending platform configuration.",
				"booking": booking,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify payment"})
	}

	services.Expiry.Cancel(booking.ID)

	websocket.Notify(booking.MentorID, websocket.Event{
		Type:    "booking_paid",
		Message: "A mentee has paid for a session. Please approve and share a meeting link.",
		Data:    booking,
	})
	var mentor models.User
	if err := database.DB.First(&mentor, "id = ?", booking.MentorID).Error; err == nil {
		go notifications.SendEmail(
			mentor.FullName, mentor.Email,
			"New paid booking",
			"<p>A mentee has paid for a session. Please approve it and share a meeting link.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": "Payment verified successfully", "booking": booking})
}
