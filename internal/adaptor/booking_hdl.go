package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shareit/internal/data/entity"
	"shareit/internal/dto/request"
	"shareit/internal/usecase"
	"shareit/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service     usecase.BookingService
	defaultSize int
	log         *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, defaultSize int, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:     service,
		defaultSize: defaultSize,
		log:         log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseBadRequest(w, "Missing user header", nil)
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		h.log.Debug("Booking request rejected",
			zap.Int64("user_id", userID),
			zap.String("errors", utils.FormatValidationErrors(validationErrors)))
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Request(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "request booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// DecideBooking handles PATCH /bookings/{bookingId}?approved={bool}
func (h *BookingHandler) DecideBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseBadRequest(w, "Missing user header", nil)
		return
	}

	bookingID, err := utils.ParseID(chi.URLParam(r, "bookingId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		utils.ResponseBadRequest(w, "Query parameter approved must be true or false", nil)
		return
	}

	booking, err := h.service.Decide(r.Context(), bookingID, userID, approved)
	if err != nil {
		handleServiceError(w, h.log, err, "decide booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetBooking handles GET /bookings/{bookingId}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseBadRequest(w, "Missing user header", nil)
		return
	}

	bookingID, err := utils.ParseID(chi.URLParam(r, "bookingId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.View(r.Context(), bookingID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetBookerBookings handles GET /bookings
func (h *BookingHandler) GetBookerBookings(w http.ResponseWriter, r *http.Request) {
	h.listBookings(w, r, false)
}

// GetOwnerBookings handles GET /bookings/owner
func (h *BookingHandler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	h.listBookings(w, r, true)
}

func (h *BookingHandler) listBookings(w http.ResponseWriter, r *http.Request, isOwner bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseBadRequest(w, "Missing user header", nil)
		return
	}

	token := r.URL.Query().Get("state")
	if token == "" {
		token = string(entity.BookingStateAll)
	}
	state, err := entity.ParseBookingState(token)
	if err != nil {
		h.log.Warn("Unknown booking state",
			zap.String("state", token),
			zap.Int64("user_id", userID))
		utils.ResponseBadRequest(w, "Unknown state: "+token, nil)
		return
	}

	page, pageErrors := parsePage(r, h.defaultSize)
	if len(pageErrors) > 0 {
		utils.ResponseBadRequest(w, "Invalid pagination", pageErrors)
		return
	}

	bookings, err := h.service.ListForUserOrOwner(r.Context(), userID, state, isOwner, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
