package wire

import (
	"shareit/internal/adaptor"
	"shareit/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.SharerUser(log))

		// POST /bookings - request a booking as booker
		r.Post("/", bookingHandler.CreateBooking)

		// GET /bookings - bookings made by the user
		r.Get("/", bookingHandler.GetBookerBookings)

		// GET /bookings/owner - bookings of the user's items
		r.Get("/owner", bookingHandler.GetOwnerBookings)

		// GET /bookings/{bookingId} - visible to booker and owner
		r.Get("/{bookingId}", bookingHandler.GetBooking)

		// PATCH /bookings/{bookingId}?approved= - owner decision
		r.Patch("/{bookingId}", bookingHandler.DecideBooking)
	})
}
