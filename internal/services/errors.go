package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors surfaced by the services. All of them are recoverable at the
// transaction boundary: when one is returned, nothing was persisted.
var (
	ErrBillNotFound      = errors.New("bill_not_found")
	ErrCustomerNotFound  = errors.New("customer_not_found")
	ErrSupplierNotFound  = errors.New("supplier_not_found")
	ErrLedgerNotFound    = errors.New("ledger_not_found")
	ErrItemCodeExists    = errors.New("item_code_already_exists")
	ErrNumberingConflict = errors.New("bill_number_conflict")
)

// ItemNotFoundError reports a line referencing an unknown or inactive item.
type ItemNotFoundError struct {
	ItemCode string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item_not_found: %s", e.ItemCode)
}

// ValidationError reports a malformed or contradictory request. The caller
// can fix the request and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation_failed: %s %s", e.Field, e.Reason)
}

// InsufficientStockError carries the quantity actually available so the
// caller can display it.
type InsufficientStockError struct {
	ItemCode  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: %s requested=%s available=%s",
		e.ItemCode, e.Requested.String(), e.Available.String())
}
