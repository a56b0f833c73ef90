package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
)

// ItemHandler handles catalog item HTTP requests
type ItemHandler struct {
	service *service.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new catalog item handler
func NewItemHandler(service *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger,
	}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "list items")
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, newItemResponse(item))
	}
	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// GetItem handles GET /api/items/{itemId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: Item not found
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "itemId")
	if !ok {
		h.logger.Warn("invalid item ID format", "itemId", r.URL.Path)
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "get item")
		return
	}
	WriteJSON(w, http.StatusOK, newItemResponse(*item), h.logger)
}

type createItemRequest struct {
	ItemName  string           `json:"item_name"`
	ItemPrice *decimal.Decimal `json:"item_price"`
}

// CreateItem handles POST /admin/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}
	if req.ItemPrice == nil {
		WriteFieldErrors(w, models.FieldErrors{"item_price": "This field is required."}, h.logger)
		return
	}

	item, err := h.service.CreateItem(r.Context(), req.ItemName, *req.ItemPrice)
	if err != nil {
		writeServiceError(w, err, h.logger, "create item")
		return
	}
	h.logger.Info("item created", "item_id", item.ID)
	WriteJSON(w, http.StatusCreated, newItemResponse(*item), h.logger)
}

// DeleteItem handles DELETE /admin/items/{itemId}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "itemId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "delete item")
		return
	}
	h.logger.Info("item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}
