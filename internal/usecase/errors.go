package usecase

import (
	"errors"

	"shareit/internal/data/entity"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrItemUnavailable  = errors.New("item is not available")
	ErrSelfBooking      = errors.New("can't book your own item")
	ErrInvalidTimeRange = errors.New("booking end must be after start and both in the future")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotAuthorized    = errors.New("user is not allowed to access this booking")
	ErrAlreadyDecided   = errors.New("can't change status after decision")
	ErrInvalidState     = entity.ErrUnknownState
	ErrInvalidPage      = errors.New("invalid pagination: from must be >= 0 and size >= 1")
)
