package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// couponValidator is the interface for coupon validation
type couponValidator interface {
	Validate(ctx context.Context, code string) (*models.Coupon, error)
}

// CouponHandler handles HTTP requests for coupon validation
type CouponHandler struct {
	validator couponValidator
	logger    *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(validator couponValidator, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		validator: validator,
		logger:    logger,
	}
}

type validateCouponRequest struct {
	Code string `json:"code"`
}

// ValidateCouponResponse is the body returned for a usable coupon
type ValidateCouponResponse struct {
	Valid              bool   `json:"valid"`
	Code               string `json:"code"`
	DiscountPercentage string `json:"discount_percentage"`
}

// ValidateCoupon handles POST /api/coupons/validate
// Reports whether the code names an active coupon whose validity window
// covers today. It never modifies the coupon.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	// An empty body is a request without a code.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("failed to decode coupon request", "error", err)
		WriteError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	c, err := h.validator.Validate(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrCodeRequired):
			WriteError(w, http.StatusBadRequest, "Coupon code is required", h.logger)
		case errors.Is(err, coupon.ErrCouponNotFound):
			WriteError(w, http.StatusNotFound, "Invalid coupon code", h.logger)
		case errors.Is(err, coupon.ErrCouponNotValid):
			WriteError(w, http.StatusBadRequest, "Coupon is not active or has expired", h.logger)
		default:
			h.logger.Error("failed to validate coupon", "error", err)
			WriteError(w, http.StatusInternalServerError, msgInternal, h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, ValidateCouponResponse{
		Valid:              true,
		Code:               c.Code,
		DiscountPercentage: money(c.DiscountPercentage),
	}, h.logger)
}
