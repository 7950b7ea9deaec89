package usecase

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/data/entity"
	"shareit/internal/data/repository"
	"shareit/internal/dto/request"
	"shareit/internal/dto/response"

	"go.uber.org/zap"
)

type ItemService interface {
	GetItem(ctx context.Context, itemID, requesterID int64) (*response.ItemWithBookingsResponse, error)
	ListOwnerItems(ctx context.Context, ownerID int64, page request.PageRequest) ([]response.ItemWithBookingsResponse, error)
}

type itemService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewItemService(repo *repository.Repository, log *zap.Logger) ItemService {
	return &itemService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "item")),
	}
}

func (s *itemService) GetItem(ctx context.Context, itemID, requesterID int64) (*response.ItemWithBookingsResponse, error) {
	item, err := s.repo.Item.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("find item %d: %w", itemID, err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
	}

	resp := response.ItemWithBookingsResponse{ItemResponse: response.ItemToResponse(item)}

	// Only the owner sees who booked the item
	if item.OwnerID != requesterID {
		return &resp, nil
	}

	bookings, err := s.repo.Booking.FindApprovedByItemIDs(ctx, item.OwnerID, []int64{item.ID})
	if err != nil {
		return nil, fmt.Errorf("load bookings of item %d: %w", itemID, err)
	}

	resp.LastBooking, resp.NextBooking = nearestBookings(bookings, s.now())
	return &resp, nil
}

func (s *itemService) ListOwnerItems(ctx context.Context, ownerID int64, page request.PageRequest) ([]response.ItemWithBookingsResponse, error) {
	if !page.Valid() {
		return nil, fmt.Errorf("from=%d size=%d: %w", page.From, page.Size, ErrInvalidPage)
	}

	exists, err := s.repo.User.Exists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", ownerID, err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", ownerID, ErrUserNotFound)
	}

	items, err := s.repo.Item.FindByOwnerID(ctx, ownerID, repository.Page{
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list items of owner %d: %w", ownerID, err)
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	bookings, err := s.repo.Booking.FindApprovedByItemIDs(ctx, ownerID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load bookings of owner %d: %w", ownerID, err)
	}

	byItem := make(map[int64][]*entity.Booking, len(items))
	for _, booking := range bookings {
		byItem[booking.Item.ID] = append(byItem[booking.Item.ID], booking)
	}

	now := s.now()
	out := make([]response.ItemWithBookingsResponse, len(items))
	for i, item := range items {
		out[i] = response.ItemWithBookingsResponse{ItemResponse: response.ItemToResponse(item)}
		out[i].LastBooking, out[i].NextBooking = nearestBookings(byItem[item.ID], now)
	}

	s.log.Debug("Owner items retrieved",
		zap.Int64("owner_id", ownerID),
		zap.Int("count", len(out)),
		zap.Int("bookings", len(bookings)),
	)

	return out, nil
}

// nearestBookings picks the last booking (started before now, latest end) and the
// next one (starts after now, earliest start)
func nearestBookings(bookings []*entity.Booking, now time.Time) (last, next *response.BookingShortResponse) {
	var lastB, nextB *entity.Booking
	for _, b := range bookings {
		if b.Status != entity.BookingStatusApproved {
			continue
		}
		switch {
		case b.Start.Before(now):
			if lastB == nil || b.End.After(lastB.End) {
				lastB = b
			}
		case b.Start.After(now):
			if nextB == nil || b.Start.Before(nextB.Start) {
				nextB = b
			}
		}
	}

	if lastB != nil {
		r := response.BookingToShortResponse(lastB)
		last = &r
	}
	if nextB != nil {
		r := response.BookingToShortResponse(nextB)
		next = &r
	}
	return last, next
}
