package response

import (
	"shareit/internal/data/entity"
	"shareit/pkg/utils"
)

// BookingResponse is the single-booking view with item and booker nested
type BookingResponse struct {
	ID     int64                `json:"id"`
	Start  utils.LocalDateTime  `json:"start"`
	End    utils.LocalDateTime  `json:"end"`
	Item   ItemResponse         `json:"item"`
	Booker UserResponse         `json:"booker"`
	Status entity.BookingStatus `json:"status"`
}

// BookingShortResponse flattens item and booker to ids for list views
type BookingShortResponse struct {
	ID       int64                `json:"id"`
	Start    utils.LocalDateTime  `json:"start"`
	End      utils.LocalDateTime  `json:"end"`
	ItemID   int64                `json:"itemId"`
	BookerID int64                `json:"bookerId"`
	Status   entity.BookingStatus `json:"status"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:     booking.ID,
		Start:  utils.NewLocalDateTime(booking.Start),
		End:    utils.NewLocalDateTime(booking.End),
		Item:   ItemToResponse(&booking.Item),
		Booker: UserToResponse(&booking.Booker),
		Status: booking.Status,
	}
}

func BookingToShortResponse(booking *entity.Booking) BookingShortResponse {
	return BookingShortResponse{
		ID:       booking.ID,
		Start:    utils.NewLocalDateTime(booking.Start),
		End:      utils.NewLocalDateTime(booking.End),
		ItemID:   booking.Item.ID,
		BookerID: booking.Booker.ID,
		Status:   booking.Status,
	}
}

func BookingsToShortResponses(bookings []*entity.Booking) []BookingShortResponse {
	out := make([]BookingShortResponse, len(bookings))
	for i, booking := range bookings {
		out[i] = BookingToShortResponse(booking)
	}
	return out
}
