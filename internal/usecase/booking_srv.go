package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/data/entity"
	"shareit/internal/data/repository"
	"shareit/internal/dto/request"
	"shareit/internal/dto/response"
	"shareit/pkg/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type BookingService interface {
	Request(ctx context.Context, bookerID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Decide(ctx context.Context, bookingID, approverID int64, approve bool) (*response.BookingResponse, error)
	View(ctx context.Context, bookingID, requesterID int64) (*response.BookingResponse, error)
	ListForUserOrOwner(ctx context.Context, userID int64, state entity.BookingState, isOwner bool, page request.PageRequest) ([]response.BookingShortResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	publisher events.Publisher
	tracer    trace.Tracer
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: publisher,
		tracer:    otel.Tracer("shareit/usecase/booking"),
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Request(ctx context.Context, bookerID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Request", trace.WithAttributes(
		attribute.Int64("booker.id", bookerID),
		attribute.Int64("item.id", req.ItemID),
	))
	defer span.End()

	var booking *entity.Booking
	err := s.repo.ExecuteTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		item, err := tx.Item.FindByIDForShare(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("find item %d: %w", req.ItemID, err)
		}
		if item == nil || !item.Available {
			return fmt.Errorf("item %d: %w", req.ItemID, ErrItemUnavailable)
		}

		booker, err := s.findUser(ctx, tx, bookerID)
		if err != nil {
			return err
		}

		if item.OwnerID == bookerID {
			return fmt.Errorf("user %d, item %d: %w", bookerID, item.ID, ErrSelfBooking)
		}

		start, end, err := validateBookingPeriod(req, s.now())
		if err != nil {
			return err
		}

		booking = &entity.Booking{
			Start:  start,
			End:    end,
			Item:   *item,
			Booker: *booker,
			Status: entity.BookingStatusWaiting,
		}

		if err := tx.Booking.Create(ctx, booking); err != nil {
			switch {
			case errors.Is(err, repository.ErrCheckViolation):
				return fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
			case errors.Is(err, repository.ErrMissingReference):
				return fmt.Errorf("%w: %v", ErrItemUnavailable, err)
			}
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		s.fail(span, "Request booking failed", err,
			zap.Int64("booker_id", bookerID),
			zap.Int64("item_id", req.ItemID),
		)
		return nil, err
	}

	s.log.Info("Booking requested",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("item_id", booking.Item.ID),
		zap.Int64("booker_id", bookerID),
	)
	s.publish(ctx, events.TypeBookingRequested, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Decide(ctx context.Context, bookingID, approverID int64, approve bool) (*response.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.Decide", trace.WithAttributes(
		attribute.Int64("booking.id", bookingID),
		attribute.Int64("approver.id", approverID),
		attribute.Bool("approved", approve),
	))
	defer span.End()

	target := entity.DecisionStatus(approve)

	var booking *entity.Booking
	err := s.repo.ExecuteTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		var err error
		booking, err = tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("find booking %d: %w", bookingID, err)
		}
		if booking == nil {
			return fmt.Errorf("booking %d: %w", bookingID, ErrBookingNotFound)
		}

		if booking.OwnerID() != approverID {
			return fmt.Errorf("user %d is not owner of item %d: %w", approverID, booking.Item.ID, ErrNotAuthorized)
		}

		if !booking.Status.CanTransitionTo(target) {
			return fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, ErrAlreadyDecided)
		}

		// The status guard in the UPDATE decides races between concurrent decisions
		updated, err := tx.Booking.UpdateStatusIfWaiting(ctx, bookingID, target)
		if err != nil {
			return fmt.Errorf("decide booking %d: %w", bookingID, err)
		}
		if !updated {
			return fmt.Errorf("booking %d was decided concurrently: %w", bookingID, ErrAlreadyDecided)
		}

		booking.Status = target
		return nil
	})
	if err != nil {
		s.fail(span, "Decide booking failed", err,
			zap.Int64("booking_id", bookingID),
			zap.Int64("approver_id", approverID),
			zap.Bool("approved", approve),
		)
		return nil, err
	}

	s.log.Info("Booking decided",
		zap.Int64("booking_id", bookingID),
		zap.Int64("approver_id", approverID),
		zap.String("status", string(target)),
	)

	eventType := events.TypeBookingRejected
	if approve {
		eventType = events.TypeBookingApproved
	}
	s.publish(ctx, eventType, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) View(ctx context.Context, bookingID, requesterID int64) (*response.BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.View", trace.WithAttributes(
		attribute.Int64("booking.id", bookingID),
	))
	defer span.End()

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.fail(span, "View booking failed", err, zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("find booking %d: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrBookingNotFound)
	}

	if !booking.IsParticipant(requesterID) {
		return nil, fmt.Errorf("user %d is neither owner nor booker of booking %d: %w", requesterID, bookingID, ErrNotAuthorized)
	}

	s.log.Debug("Returning booking",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", requesterID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListForUserOrOwner(ctx context.Context, userID int64, state entity.BookingState, isOwner bool, page request.PageRequest) ([]response.BookingShortResponse, error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListForUserOrOwner", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.String("state", string(state)),
		attribute.Bool("owner", isOwner),
	))
	defer span.End()

	if !page.Valid() {
		return nil, fmt.Errorf("from=%d size=%d: %w", page.From, page.Size, ErrInvalidPage)
	}

	filter, err := buildBookingFilter(state, userID, isOwner, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.User.Exists(ctx, userID)
	if err != nil {
		s.fail(span, "List bookings failed", err, zap.Int64("user_id", userID))
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	bookings, err := s.repo.Booking.FindFiltered(ctx, filter, repository.Page{
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		s.fail(span, "List bookings failed", err, zap.Int64("user_id", userID))
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, err)
	}

	s.log.Debug("Bookings retrieved",
		zap.Int64("user_id", userID),
		zap.String("state", string(state)),
		zap.Bool("owner", isOwner),
		zap.Int("count", len(bookings)),
		zap.Int("from", page.From),
		zap.Int("size", page.Size),
	)

	return response.BookingsToShortResponses(bookings), nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findUser(ctx context.Context, repo *repository.Repository, userID int64) (*entity.User, error) {
	exists, err := repo.User.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	user, err := repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return user, nil
}

// validateBookingPeriod requires both ends in the future and end strictly after start
func validateBookingPeriod(req *request.CreateBookingRequest, now time.Time) (time.Time, time.Time, error) {
	if req.Start == nil || req.End == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end are required: %w", ErrInvalidTimeRange)
	}

	start, end := req.Start.Time, req.End.Time
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is not after start %s: %w",
			end.Format(time.RFC3339), start.Format(time.RFC3339), ErrInvalidTimeRange)
	}
	if !start.After(now) {
		return time.Time{}, time.Time{}, fmt.Errorf("start %s is in the past: %w",
			start.Format(time.RFC3339), ErrInvalidTimeRange)
	}

	return start, end, nil
}

// publish never fails the caller: the booking is already committed
func (s *bookingService) publish(ctx context.Context, eventType string, booking *entity.Booking) {
	event := events.NewBookingEvent(eventType, s.now())
	event.BookingID = booking.ID
	event.ItemID = booking.Item.ID
	event.BookerID = booking.Booker.ID
	event.OwnerID = booking.Item.OwnerID
	event.Status = string(booking.Status)
	event.Start = booking.Start
	event.End = booking.End

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.Int64("booking_id", booking.ID),
		)
	}
}

// fail records err on the span; domain errors are logged at warn, the rest at error
func (s *bookingService) fail(span trace.Span, msg string, err error, fields ...zap.Field) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields = append(fields, zap.Error(err))
	if isDomainError(err) {
		s.log.Warn(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrItemNotFound, ErrItemUnavailable, ErrSelfBooking,
		ErrInvalidTimeRange, ErrBookingNotFound, ErrNotAuthorized, ErrAlreadyDecided,
		ErrInvalidState, ErrInvalidPage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
