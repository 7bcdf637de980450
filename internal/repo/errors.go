package repo

import "errors"

var (
	// ErrMedicineNotFound is returned when no medicine matches the id or batch number.
	ErrMedicineNotFound = errors.New("medicine not found")
	// ErrDuplicatedValueUnique is returned when a unique column (batch number, username) already holds the value.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	// ErrInvalidStockChange is returned when an adjustment would make stock negative.
	ErrInvalidStockChange = errors.New("stock cannot be negative")
	ErrUserNotFound       = errors.New("user not found")
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const defaultScanLogLimit = 100

// page slices n items according to offset and limit, returning start and end
// indexes. A missing or non-positive limit means defaultScanLogLimit.
func page(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, n)
	}
	size := defaultScanLogLimit
	if limit != nil && *limit > 0 {
		size = *limit
	}
	return start, clamp(start+size, start, n)
}
