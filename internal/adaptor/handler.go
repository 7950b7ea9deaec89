package adaptor

import (
	"errors"
	"net/http"

	"shareit/internal/dto/request"
	"shareit/internal/usecase"
	"shareit/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Item    *ItemHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, config.App.DefaultPageSize, log),
		Item:    NewItemHandler(service.Item, config.App.DefaultPageSize, log),
	}
}

// parsePage reads from/size query parameters; an absent value takes its default
func parsePage(r *http.Request, defaultSize int) (request.PageRequest, map[string]string) {
	query := r.URL.Query()
	errs := map[string]string{}

	from, err := utils.ParseInt(query.Get("from"), 0)
	if err != nil {
		errs["from"] = "from must be an integer"
	}
	size, err := utils.ParseInt(query.Get("size"), defaultSize)
	if err != nil {
		errs["size"] = "size must be an integer"
	}
	if len(errs) > 0 {
		return request.PageRequest{}, errs
	}

	page := request.PageRequest{From: from, Size: size}
	if validationErrors := utils.ValidateStruct(page); len(validationErrors) > 0 {
		return request.PageRequest{}, validationErrors
	}
	return page, nil
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrSelfBooking),
		errors.Is(err, usecase.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrItemUnavailable),
		errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrAlreadyDecided),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrInvalidPage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleServiceError writes the error envelope; internal failures never leak their message
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.Int("status", code))

	switch code {
	case http.StatusNotFound:
		utils.ResponseNotFound(w, err.Error())
	case http.StatusForbidden:
		utils.ResponseForbidden(w, err.Error())
	default:
		utils.ResponseBadRequest(w, err.Error(), nil)
	}
}
