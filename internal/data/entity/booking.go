package entity

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownState = errors.New("unknown state")

type BookingStatus string

const (
	BookingStatusWaiting  BookingStatus = "WAITING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
	BookingStatusCanceled BookingStatus = "CANCELED"
)

// bookingTransitions lists the statuses reachable from each status.
// CANCELED is a legal stored value but nothing transitions into it.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusWaiting:  {BookingStatusApproved, BookingStatusRejected},
	BookingStatusApproved: {},
	BookingStatusRejected: {},
	BookingStatusCanceled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// DecisionStatus maps an owner's decision to the status it produces.
func DecisionStatus(approve bool) BookingStatus {
	if approve {
		return BookingStatusApproved
	}
	return BookingStatusRejected
}

// BookingState is the state filter used by booking list queries.
type BookingState string

const (
	BookingStateAll      BookingState = "ALL"
	BookingStateCurrent  BookingState = "CURRENT"
	BookingStatePast     BookingState = "PAST"
	BookingStateFuture   BookingState = "FUTURE"
	BookingStateWaiting  BookingState = "WAITING"
	BookingStateRejected BookingState = "REJECTED"
)

// ParseBookingState is case-sensitive: "all" is not a valid token.
func ParseBookingState(s string) (BookingState, error) {
	switch state := BookingState(s); state {
	case BookingStateAll, BookingStateCurrent, BookingStatePast,
		BookingStateFuture, BookingStateWaiting, BookingStateRejected:
		return state, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownState, s)
	}
}

// Booking is always loaded with its item and booker materialized.
type Booking struct {
	ID     int64         `db:"id"`
	Start  time.Time     `db:"start_date"`
	End    time.Time     `db:"end_date"`
	Item   Item          `db:"-"`
	Booker User          `db:"-"`
	Status BookingStatus `db:"status"`
}

func (b *Booking) OwnerID() int64 {
	return b.Item.OwnerID
}

// IsParticipant reports whether the user is the booker or the item owner.
func (b *Booking) IsParticipant(userID int64) bool {
	return b.Booker.ID == userID || b.Item.OwnerID == userID
}
