package repository

import (
	"fmt"
	"strings"
	"time"

	"shareit/internal/data/entity"
)

// BookingFilter is the party predicate (booker or item owner) plus optional
// state predicates. Nil bounds and an empty Status are not applied.
type BookingFilter struct {
	UserID      int64
	AsOwner     bool
	StartBefore *time.Time
	StartAfter  *time.Time
	EndBefore   *time.Time
	EndAfter    *time.Time
	Status      entity.BookingStatus
}

// Page is a LIMIT/OFFSET window. Limit 0 means unbounded.
type Page struct {
	Limit  int
	Offset int
}

// Where renders the filter as a SQL condition over the aliases b (bookings) and i (items).
// Placeholders are numbered from argStart. The party predicate is always the first condition.
func (f BookingFilter) Where(argStart int) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, argStart+len(args)-1))
	}

	if f.AsOwner {
		add("i.owner_id = $%d", f.UserID)
	} else {
		add("b.booker_id = $%d", f.UserID)
	}
	if f.StartBefore != nil {
		add("b.start_date < $%d", dbTime(*f.StartBefore))
	}
	if f.StartAfter != nil {
		add("b.start_date > $%d", dbTime(*f.StartAfter))
	}
	if f.EndBefore != nil {
		add("b.end_date < $%d", dbTime(*f.EndBefore))
	}
	if f.EndAfter != nil {
		add("b.end_date > $%d", dbTime(*f.EndAfter))
	}
	if f.Status != "" {
		add("b.status = $%d", string(f.Status))
	}

	return strings.Join(conds, " AND "), args
}

// Matches evaluates the same predicate as Where against a loaded booking
func (f BookingFilter) Matches(b *entity.Booking) bool {
	if f.AsOwner {
		if b.Item.OwnerID != f.UserID {
			return false
		}
	} else if b.Booker.ID != f.UserID {
		return false
	}
	if f.StartBefore != nil && !b.Start.Before(*f.StartBefore) {
		return false
	}
	if f.StartAfter != nil && !b.Start.After(*f.StartAfter) {
		return false
	}
	if f.EndBefore != nil && !b.End.Before(*f.EndBefore) {
		return false
	}
	if f.EndAfter != nil && !b.End.After(*f.EndAfter) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}
