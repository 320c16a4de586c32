package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// LedgerDateLayout is the date format used by the remote ledger.
const LedgerDateLayout = "2006-01-02"

// RegisterValidations adds the custom binding rules used by request DTOs.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("ledger_date", validateLedgerDate)
}

func validateLedgerDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(LedgerDateLayout, fl.Field().String())
	return err == nil
}
