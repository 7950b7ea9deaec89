package usecase

import (
	"shareit/internal/data/repository"
	"shareit/pkg/events"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Item    ItemService
}

func NewService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, publisher, log),
		Item:    NewItemService(repo, log),
	}
}
