package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

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

type CreateBookingRequest struct {
	MentorID       string `json:"mentor_id" validate:"required,uuid"`
	AvailabilityID string `json:"availability_id" validate:"required,uuid"`
	TimeSlotID     string `json:"time_slot_id" validate:"required,uuid"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
}

func parseRFC3339(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp, expected RFC3339: %v", err)
	}
	return t, nil
}

// CreateBooking reserves a slot and opens a gateway order for it. The booking
// starts pending and unpaid; if no payment confirms within the timeout the
// expiry scheduler deletes it and frees the slot. A gateway failure keeps the
// reservation alive so the client can retry payment before it expires.
func CreateBooking(c *fiber.Ctx) error {
	menteeID := currentUserID(c)

	var req CreateBookingRequest
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

	booking, err := services.Reserve(database.DB, menteeID, mentorID, availabilityID, timeSlotID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWindow):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
		case errors.Is(err, services.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This slot is already booked"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability or time slot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	services.Expiry.Schedule(booking.ID)

	var timeSlot models.TimeSlot
	if err := database.DB.First(&timeSlot, "id = ?", timeSlotID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load time slot"})
	}

	gateway := payments.NewRazorpayClient()
	order, err := services.OpenGatewayOrder(database.DB, gateway, booking, timeSlot.Price)
	if err != nil {
		log.Printf("🔥 Failed to open gateway order for booking %s: %v", booking.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":      "Payment gateway unavailable, booking held until payment timeout",
			"booking_id": booking.ID,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking":           booking,
		"razorpay_order_id": order.ID,
		"amount":            order.Amount,
		"currency":          order.Currency,
	})
}

type UpdateBookingStatusRequest struct {
	Status      string  `json:"status" validate:"required,oneof=approved rejected"`
	MeetingLink *string `json:"meeting_link,omitempty"`
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.UpdateBookingStatus(database.DB, mentorID, bookingID, req.Status, req.MeetingLink)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		case errors.Is(err, services.ErrPermissionDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only manage your own bookings"})
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status must be approved or rejected"})
		case errors.Is(err, services.ErrMeetingLinkRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A meeting link is required to approve a booking"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update booking"})
	}

	websocket.Notify(booking.MenteeID, websocket.Event{
		Type:    "booking_status",
		Message: fmt.Sprintf("Your booking was %s", booking.BookingStatus),
		Data:    booking,
	})

	subject := "Booking update"
	body := fmt.Sprintf("<p>Your booking was %s.</p>", booking.BookingStatus)
	if booking.BookingStatus == models.BookingStatusApproved && booking.MeetingLink != nil {
		body = fmt.Sprintf("<p>Your booking was approved. Join here: <a href='%s'>%s</a></p>", *booking.MeetingLink, *booking.MeetingLink)
	}
	go notifications.SendEmail(booking.Mentee.FullName, booking.Mentee.Email, subject, body)

	return c.JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	menteeID := currentUserID(c)

	var bookings []models.Booking
	err := database.DB.
		Preload("Mentor").
		Preload("TimeSlot").
		Where("mentee_id = ?", menteeID).
		Order("start_time desc").
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}

func GetMentorBookings(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var bookings []models.Booking
	err := database.DB.
		Preload("Mentee").
		Preload("TimeSlot").
		Where("mentor_id = ?", mentorID).
		Order("start_time desc").
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}
