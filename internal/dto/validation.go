package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ParseDate parses an ISO calendar date (YYYY-MM-DD) into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

// ledgerDate validates that a string field holds an ISO calendar date.
func ledgerDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// RegisterValidations installs the custom binding validations used by the
// request DTOs. Called once at startup against gin's validator engine.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("ledgerdate", ledgerDate)
}
