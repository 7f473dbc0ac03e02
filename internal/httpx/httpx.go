package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Decode reads a JSON request body into dst, rejecting unknown fields so
// typos in payloads fail loudly instead of being dropped.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// DomainError maps service-level failures onto HTTP responses so every
// handler reports the error taxonomy the same way.
func DomainError(w http.ResponseWriter, err error) {
	var (
		notFound     *services.ItemNotFoundError
		validation   *services.ValidationError
		insufficient *services.InsufficientStockError
	)
	switch {
	case errors.As(err, &notFound):
		JSONError(w, http.StatusNotFound, "item_not_found", map[string]string{"item_code": notFound.ItemCode})
	case errors.As(err, &validation):
		JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{
			"field": validation.Field, "reason": validation.Reason,
		})
	case errors.As(err, &insufficient):
		JSONError(w, http.StatusConflict, "insufficient_stock", map[string]string{
			"item_code": insufficient.ItemCode,
			"requested": insufficient.Requested.String(),
			"available": insufficient.Available.String(),
		})
	case errors.Is(err, services.ErrNumberingConflict):
		JSONError(w, http.StatusConflict, "bill_number_conflict", nil)
	case errors.Is(err, services.ErrBillNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrSupplierNotFound),
		errors.Is(err, services.ErrLedgerNotFound):
		JSONError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrItemCodeExists):
		JSONError(w, http.StatusBadRequest, "item_code_already_exists", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		JSONError(w, http.StatusNotFound, "not_found", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
