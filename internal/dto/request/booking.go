package request

import "shareit/pkg/utils"

// CreateBookingRequest leaves start and end to the booking service, which checks
// the period only after the item and booker checks.
type CreateBookingRequest struct {
	ItemID int64                `json:"itemId" validate:"required,gt=0"`
	Start  *utils.LocalDateTime `json:"start"`
	End    *utils.LocalDateTime `json:"end"`
}
