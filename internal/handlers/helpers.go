package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
)

const (
	msgInvalidID   = "Invalid ID supplied"
	msgInvalidBody = "Invalid request body"
	msgInternal    = "Internal server error"
)

// parseID reads a positive integer URL parameter
func parseID(r *http.Request, param string) (uint, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps service and repository errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger, op string) {
	var fields models.FieldErrors
	switch {
	case errors.As(err, &fields):
		logger.Info(op+" rejected", "fields", fields)
		WriteFieldErrors(w, fields, logger)
	case errors.Is(err, repository.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", logger)
	case errors.Is(err, repository.ErrOrderItemNotFound):
		WriteError(w, http.StatusNotFound, "Order item not found", logger)
	case errors.Is(err, repository.ErrItemNotFound):
		WriteError(w, http.StatusNotFound, "Item not found", logger)
	case errors.Is(err, repository.ErrCouponNotFound):
		WriteError(w, http.StatusNotFound, "Coupon not found", logger)
	case errors.Is(err, repository.ErrStatusNotFound):
		WriteError(w, http.StatusNotFound, "Order status not found", logger)
	case errors.Is(err, repository.ErrCustomerNotFound):
		WriteError(w, http.StatusNotFound, "Customer not found", logger)
	case errors.Is(err, repository.ErrDuplicate):
		WriteError(w, http.StatusConflict, "A record with these values already exists", logger)
	default:
		logger.Error("failed to "+op, "error", err)
		WriteError(w, http.StatusInternalServerError, msgInternal, logger)
	}
}
