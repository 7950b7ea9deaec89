package usecase

import (
	"fmt"
	"time"

	"shareit/internal/data/entity"
	"shareit/internal/data/repository"
)

// buildBookingFilter combines the party predicate with the predicate of the requested state
func buildBookingFilter(state entity.BookingState, userID int64, isOwner bool, now time.Time) (repository.BookingFilter, error) {
	filter := repository.BookingFilter{UserID: userID, AsOwner: isOwner}

	switch state {
	case entity.BookingStateAll:
	case entity.BookingStateCurrent:
		filter.StartBefore = &now
		filter.EndAfter = &now
	case entity.BookingStatePast:
		filter.EndBefore = &now
	case entity.BookingStateFuture:
		filter.StartAfter = &now
	case entity.BookingStateWaiting:
		filter.Status = entity.BookingStatusWaiting
	case entity.BookingStateRejected:
		filter.Status = entity.BookingStatusRejected
	default:
		return repository.BookingFilter{}, fmt.Errorf("%w: %s", ErrInvalidState, state)
	}

	if userID < 1 {
		return repository.BookingFilter{}, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}

	return filter, nil
}
