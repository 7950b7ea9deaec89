package wire

import (
	"shareit/internal/adaptor"
	"shareit/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireItem(r chi.Router, itemHandler *adaptor.ItemHandler, log *zap.Logger) {
	r.Route("/items", func(r chi.Router) {
		r.Use(middleware.SharerUser(log))

		r.Get("/", itemHandler.GetOwnerItems)
		r.Get("/{itemId}", itemHandler.GetItem)
	})
}
