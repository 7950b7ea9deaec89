package adaptor

import (
	"net/http"

	"shareit/internal/usecase"
	"shareit/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ItemHandler struct {
	service     usecase.ItemService
	defaultSize int
	log         *zap.Logger
}

func NewItemHandler(service usecase.ItemService, defaultSize int, log *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service:     service,
		defaultSize: defaultSize,
		log:         log.With(zap.String("handler", "item")),
	}
}

// GetItem handles GET /items/{itemId}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseBadRequest(w, "Missing user header", nil)
		return
	}

	itemID, err := utils.ParseID(chi.URLParam(r, "itemId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid item ID", nil)
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get item")
		return
	}

	utils.ResponseSuccess(w, "success", item)
}

// GetOwnerItems handles GET /items
func (h *ItemHandler) GetOwnerItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseBadRequest(w, "Missing user header", nil)
		return
	}

	page, pageErrors := parsePage(r, h.defaultSize)
	if len(pageErrors) > 0 {
		utils.ResponseBadRequest(w, "Invalid pagination", pageErrors)
		return
	}

	items, err := h.service.ListOwnerItems(r.Context(), userID, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list owner items")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}
