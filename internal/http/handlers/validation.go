package handlers

import (
	"strings"
	"time"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateMedicine(m MedicineRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	if strings.TrimSpace(m.Manufacturer) == "" {
		errs = append(errs, ValidationError{Field: "Manufacturer", Description: "Manufacturer is required"})
	}
	if strings.TrimSpace(m.BatchNumber) == "" {
		errs = append(errs, ValidationError{Field: "BatchNumber", Description: "Batch number is required"})
	} else if len(m.BatchNumber) > 100 {
		errs = append(errs, ValidationError{Field: "BatchNumber", Description: "Batch number must be at most 100 characters"})
	}
	if _, err := time.Parse(DateLayout, m.ExpiryDate); err != nil {
		errs = append(errs, ValidationError{Field: "ExpiryDate", Description: "Expiry date must be a date in YYYY-MM-DD format"})
	}
	if m.Price <= 0 {
		errs = append(errs, ValidationError{Field: "Price", Description: "Price must be greater than zero"})
	}
	if m.Stock < 0 {
		errs = append(errs, ValidationError{Field: "Stock", Description: "Stock cannot be negative"})
	}
	return errs
}
