package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"github.com/menttalk/mentor_marketplace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAvailabilityRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// parseWindow combines a "2006-01-02" date with "15:04" clock times into the
// absolute start and end of the window.
func parseWindow(dateStr, startStr, endStr string) (date, start, end time.Time, err error) {
	date, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return date, start, end, fmt.Errorf("invalid date, expected YYYY-MM-DD: %v", err)
	}
	startClock, err := time.Parse("15:04", startStr)
	if err != nil {
		return date, start, end, fmt.Errorf("invalid start_time, expected HH:MM: %v", err)
	}
	endClock, err := time.Parse("15:04", endStr)
	if err != nil {
		return date, start, end, fmt.Errorf("invalid end_time, expected HH:MM: %v", err)
	}

	start = time.Date(date.Year(), date.Month(), date.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	end = time.Date(date.Year(), date.Month(), date.Day(), endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)
	return date, start, end, nil
}

func CreateAvailability(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var req CreateAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	date, start, end, err := parseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	availability, err := services.CreateAvailability(database.DB, mentorID, date, start, end)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWindow):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
		case errors.Is(err, services.ErrAvailabilityConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Availability overlaps an existing window on that date"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability"})
	}

	return c.Status(fiber.StatusCreated).JSON(availability)
}

func GetMyAvailability(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var availabilities []models.Availability
	err := database.DB.
		Where("mentor_id = ?", mentorID).
		Order("date, start_time").
		Find(&availabilities).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch availability"})
	}

	return c.JSON(availabilities)
}

type CreateTimeSlotRequest struct {
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"required,gt=0"`
}

func CreateTimeSlot(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var req CreateTimeSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	timeSlot := models.TimeSlot{
		MentorID:        mentorID,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}
	if err := database.DB.Create(&timeSlot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create time slot"})
	}

	return c.Status(fiber.StatusCreated).JSON(timeSlot)
}

func ListMyTimeSlots(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var timeSlots []models.TimeSlot
	if err := database.DB.Where("mentor_id = ?", mentorID).Find(&timeSlots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch time slots"})
	}

	return c.JSON(timeSlots)
}

// GetMentorAvailableSlots is the public mentee-facing listing of a mentor's
// bookable slots, grouped by availability window and pricing tier.
func GetMentorAvailableSlots(c *fiber.Ctx) error {
	mentorID, err := uuid.Parse(c.Params("mentorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mentor id"})
	}

	listings, err := services.ListAvailableSlots(database.DB, mentorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch available slots"})
	}

	return c.JSON(listings)
}

func ListMentors(c *fiber.Ctx) error {
	var mentors []models.Mentor
	if err := database.DB.Preload("User").Find(&mentors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch mentors"})
	}

	return c.JSON(mentors)
}
