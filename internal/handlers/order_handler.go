package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
)

// OrderHandler handles the admin order endpoints
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

type orderItemRequest struct {
	ID          uint             `json:"id"`
	ItemID      *uint            `json:"item_id"`
	Quantity    *uint            `json:"quantity"`
	PriceAtTime *decimal.Decimal `json:"price_at_time"`
	Delete      bool             `json:"delete"`
}

// orderRequest is the admin order form. Computed prices and timestamps
// are not part of it; if sent they are ignored.
type orderRequest struct {
	CustomerID      *uint              `json:"customer_id"`
	StatusID        *uint              `json:"status_id"`
	AppliedCouponID *uint              `json:"applied_coupon_id"`
	Items           []orderItemRequest `json:"items"`
}

func (req orderRequest) toService() service.OrderRequest {
	out := service.OrderRequest{
		OrderInput: models.OrderInput{
			CustomerID:      req.CustomerID,
			StatusID:        req.StatusID,
			AppliedCouponID: req.AppliedCouponID,
		},
	}
	for _, it := range req.Items {
		out.Items = append(out.Items, models.OrderItemChange{
			ID:          it.ID,
			ItemID:      it.ItemID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
			Delete:      it.Delete,
		})
	}
	return out
}

// ListOrders handles GET /admin/orders
// Query: status, q, from, to (YYYY-MM-DD), year, month, day.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, fields := parseOrderFilter(r.URL.Query())
	if err := fields.Err(); err != nil {
		WriteFieldErrors(w, fields, h.log)
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.log, "list orders")
		return
	}

	resp := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderSummary(o))
	}
	WriteJSON(w, http.StatusOK, resp, h.log)
}

// CreateOrder handles POST /admin/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.log)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req.toService())
	if err != nil {
		writeServiceError(w, err, h.log, "create order")
		return
	}

	WriteJSON(w, http.StatusCreated, newOrderDetail(*order), h.log)
	h.log.Info("order created successfully", "order_id", order.ID)
}

// GetOrder handles GET /admin/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "orderId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.log)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.log, "get order")
		return
	}
	WriteJSON(w, http.StatusOK, newOrderDetail(*order), h.log)
}

// UpdateOrder handles PUT /admin/orders/{orderId}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "orderId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.log)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.log)
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), id, req.toService())
	if err != nil {
		writeServiceError(w, err, h.log, "update order")
		return
	}

	WriteJSON(w, http.StatusOK, newOrderDetail(*order), h.log)
	h.log.Info("order updated", "order_id", order.ID, "items_count", len(order.Items), "final_price", money(order.FinalPrice))
}

// DeleteOrder handles DELETE /admin/orders/{orderId}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "orderId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.log)
		return
	}
	if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, err, h.log, "delete order")
		return
	}
	h.log.Info("order deleted", "order_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// RecalculateOrder handles POST /admin/orders/{orderId}/recalculate
func (h *OrderHandler) RecalculateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "orderId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.log)
		return
	}
	order, err := h.orderService.RecalculateOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.log, "recalculate order")
		return
	}
	WriteJSON(w, http.StatusOK, newOrderDetail(*order), h.log)
}

// parseOrderFilter reads the list filters, collecting a field error for
// each value that does not parse.
func parseOrderFilter(q url.Values) (repository.OrderFilter, models.FieldErrors) {
	var filter repository.OrderFilter
	fields := models.FieldErrors{}

	if v := q.Get("status"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			fields.Add("status", "Select a valid choice.")
		} else {
			status := uint(id)
			filter.StatusID = &status
		}
	}

	parseDay := func(name string) *time.Time {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		t, err := models.ParseDate(v)
		if err != nil {
			fields.Add(name, "Enter a valid date.")
			return nil
		}
		return &t
	}
	filter.From = parseDay("from")
	filter.To = parseDay("to")

	parseInt := func(name string, lo, hi int) int {
		v := q.Get(name)
		if v == "" {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < lo || n > hi {
			fields.Add(name, "Enter a whole number.")
			return 0
		}
		return n
	}
	filter.Year = parseInt("year", 1, 9999)
	filter.Month = parseInt("month", 1, 12)
	filter.Day = parseInt("day", 1, 31)
	if filter.Month != 0 && filter.Year == 0 {
		fields.Add("month", "Month requires year.")
	}
	if filter.Day != 0 && filter.Month == 0 {
		fields.Add("day", "Day requires month.")
	}

	filter.Query = q.Get("q")
	return filter, fields
}
