package services

import "errors"

// Error taxonomy for the booking/payment/wallet core. Handlers map these to
// HTTP statuses with errors.Is.
var (
	ErrInvalidWindow        = errors.New("availability window end must be after start")
	ErrAvailabilityConflict = errors.New("availability window overlaps an existing window on that date")
	ErrSlotTaken            = errors.New("the selected time slot is already booked")
	ErrPermissionDenied     = errors.New("you do not have permission to modify this booking")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrMeetingLinkRequired  = errors.New("meeting link is required for approval")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrSignatureMismatch    = errors.New("payment signature verification failed")
	ErrConfigurationMissing = errors.New("commission settings not configured")
	ErrAlreadyProcessed     = errors.New("request has already been processed")
	ErrBelowMinimumPayout   = errors.New("amount is below the minimum payout")
)
