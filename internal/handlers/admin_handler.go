package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
)

// AdminHandler serves the coupon, status and customer registries
type AdminHandler struct {
	coupons   *service.CouponService
	statuses  *service.StatusService
	customers *service.CustomerService
	logger    *slog.Logger
}

func NewAdminHandler(coupons *service.CouponService, statuses *service.StatusService, customers *service.CustomerService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		coupons:   coupons,
		statuses:  statuses,
		customers: customers,
		logger:    logger,
	}
}

type couponRequest struct {
	Code               string           `json:"code"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	IsActive           *bool            `json:"is_active"`
	ValidFrom          *string          `json:"valid_from"`
	ValidUntil         *string          `json:"valid_until"`
}

// toInput converts the form. On update a missing valid_until clears it.
func (req couponRequest) toInput(update bool) (service.CouponInput, models.FieldErrors) {
	fields := models.FieldErrors{}
	in := service.CouponInput{
		Code:            req.Code,
		IsActive:        req.IsActive,
		ClearValidUntil: update && req.ValidUntil == nil,
	}
	if req.DiscountPercentage == nil {
		fields.Add("discount_percentage", "This field is required.")
	} else {
		in.DiscountPercentage = *req.DiscountPercentage
	}

	parse := func(name string, v *string) *time.Time {
		if v == nil || *v == "" {
			return nil
		}
		t, err := models.ParseDate(*v)
		if err != nil {
			fields.Add(name, "Enter a valid date.")
			return nil
		}
		return &t
	}
	in.ValidFrom = parse("valid_from", req.ValidFrom)
	in.ValidUntil = parse("valid_until", req.ValidUntil)
	return in, fields
}

// ListCoupons handles GET /admin/coupons
func (h *AdminHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.ListCoupons(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "list coupons")
		return
	}
	resp := make([]CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		resp = append(resp, newCouponResponse(c))
	}
	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// GetCoupon handles GET /admin/coupons/{couponId}
func (h *AdminHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "couponId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	c, err := h.coupons.GetCoupon(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "get coupon")
		return
	}
	WriteJSON(w, http.StatusOK, newCouponResponse(*c), h.logger)
}

// CreateCoupon handles POST /admin/coupons
func (h *AdminHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}
	in, fields := req.toInput(false)
	if fields.Err() != nil {
		WriteFieldErrors(w, fields, h.logger)
		return
	}

	c, err := h.coupons.CreateCoupon(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, h.logger, "create coupon")
		return
	}
	h.logger.Info("coupon created", "coupon_id", c.ID, "code", c.Code)
	WriteJSON(w, http.StatusCreated, newCouponResponse(*c), h.logger)
}

// UpdateCoupon handles PUT /admin/coupons/{couponId}
func (h *AdminHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "couponId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}
	in, fields := req.toInput(true)
	if fields.Err() != nil {
		WriteFieldErrors(w, fields, h.logger)
		return
	}

	c, err := h.coupons.UpdateCoupon(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, h.logger, "update coupon")
		return
	}
	WriteJSON(w, http.StatusOK, newCouponResponse(*c), h.logger)
}

// DeleteCoupon handles DELETE /admin/coupons/{couponId}
func (h *AdminHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "couponId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	if err := h.coupons.DeleteCoupon(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "delete coupon")
		return
	}
	h.logger.Info("coupon deleted", "coupon_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListStatuses handles GET /admin/statuses
func (h *AdminHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statuses.ListStatuses(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "list statuses")
		return
	}
	resp := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, StatusResponse{ID: s.ID, Name: s.Name})
	}
	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// CreateStatus handles POST /admin/statuses
func (h *AdminHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}
	s, err := h.statuses.CreateStatus(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err, h.logger, "create status")
		return
	}
	WriteJSON(w, http.StatusCreated, StatusResponse{ID: s.ID, Name: s.Name}, h.logger)
}

// DeleteStatus handles DELETE /admin/statuses/{statusId}
func (h *AdminHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "statusId")
	if !ok {
		WriteError(w, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	if err := h.statuses.DeleteStatus(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "delete status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCustomers handles GET /admin/customers
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "list customers")
		return
	}
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, CustomerResponse{ID: c.ID, Username: c.Username, Email: c.Email, CreatedAt: c.CreatedAt})
	}
	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// CreateCustomer handles POST /admin/customers
func (h *AdminHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}
	c, err := h.customers.CreateCustomer(r.Context(), req.Username, req.Email)
	if err != nil {
		writeServiceError(w, err, h.logger, "create customer")
		return
	}
	WriteJSON(w, http.StatusCreated, CustomerResponse{ID: c.ID, Username: c.Username, Email: c.Email, CreatedAt: c.CreatedAt}, h.logger)
}
