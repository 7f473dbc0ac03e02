package services

import "github.com/go-playground/validator/v10"

// Shared validator for request payloads. Decimal-valued rules (positive
// quantity, non-negative rate) are checked in code since validator tags
// only understand native numeric kinds.
var validate = validator.New()
