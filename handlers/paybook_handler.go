package handlers

import (
	"errors"

	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/models"
	"github.com/menttalk/mentor_marketplace/notifications"
	"github.com/menttalk/mentor_marketplace/services"
	"github.com/menttalk/mentor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GetCommissionSetting(c *fiber.Ctx) error {
	setting, err := services.LoadCommissionSetting(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load commission settings"})
	}
	if setting == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Commission settings not configured"})
	}

	return c.JSON(setting)
}

type UpdateCommissionSettingRequest struct {
	CommissionType  string  `json:"commission_type" validate:"required,oneof=percentage fixed"`
	CommissionValue float64 `json:"commission_value" validate:"gte=0"`
	MinimumPayout   float64 `json:"minimum_payout" validate:"gte=0"`
}

// UpdateCommissionSetting creates or updates the single commission row.
func UpdateCommissionSetting(c *fiber.Ctx) error {
	var req UpdateCommissionSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var setting models.CommissionSetting
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.CommissionSetting{
				CommissionType:  req.CommissionType,
				CommissionValue: req.CommissionValue,
				MinimumPayout:   req.MinimumPayout,
			}
			return tx.Create(&setting).Error
		}
		if err != nil {
			return err
		}

		setting.CommissionType = req.CommissionType
		setting.CommissionValue = req.CommissionValue
		setting.MinimumPayout = req.MinimumPayout
		return tx.Save(&setting).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update commission settings"})
	}

	return c.JSON(setting)
}

func ListPaybookEntries(c *fiber.Ctx) error {
	var entries []models.PaybookEntry
	err := database.DB.
		Preload("Mentor").
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch paybook entries"})
	}

	return c.JSON(entries)
}

func GetMyPaybookEntries(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var entries []models.PaybookEntry
	err := database.DB.
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch paybook entries"})
	}

	return c.JSON(entries)
}

type RequestPayoutRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func RequestPayout(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var req RequestPayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	setting, err := services.LoadCommissionSetting(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load commission settings"})
	}

	request, err := services.RequestPayout(database.DB, mentorID, req.Amount, setting)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConfigurationMissing):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Payouts are not configured yet"})
		case errors.Is(err, services.ErrBelowMinimumPayout):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is below the minimum payout"})
		case errors.Is(err, services.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient wallet balance"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request payout"})
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetMyPayoutRequests(c *fiber.Ctx) error {
	mentorID := currentUserID(c)

	var requests []models.PayoutRequest
	err := database.DB.
		Where("mentor_id = ?", mentorID).
		Order("requested_at desc").
		Find(&requests).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payout requests"})
	}

	return c.JSON(requests)
}

func ListPayoutRequests(c *fiber.Ctx) error {
	var requests []models.PayoutRequest
	err := database.DB.
		Preload("Mentor").
		Order("requested_at desc").
		Find(&requests).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payout requests"})
	}

	return c.JSON(requests)
}

type ResolvePayoutRequest struct {
	Action     string `json:"action" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

// ProcessPayoutRequest resolves a pending payout. A rejection refunds the
// held amount back to the mentor's wallet.
func ProcessPayoutRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout request id"})
	}

	var req ResolvePayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.ResolvePayout(database.DB, requestID, req.Action, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout request not found"})
		case errors.Is(err, services.ErrAlreadyProcessed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payout request already processed"})
		case errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Action must be approved or rejected"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payout request"})
	}

	websocket.Notify(request.MentorID, websocket.Event{
		Type:    "payout_processed",
		Message: "Your payout request was " + request.Status,
		Data:    request,
	})

	var mentor models.User
	if err := database.DB.First(&mentor, "id = ?", request.MentorID).Error; err == nil {
		go notifications.SendEmail(
			mentor.FullName, mentor.Email,
			"Payout request update",
			"<p>Your payout request was "+request.Status+".</p>",
		)
	}

	return c.JSON(request)
}
