package repo

import (
	"context"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

type ScanLogFilter struct {
	MedicineID *int
	UserID     *int
	Recognized *bool
	Offset     *int
	Limit      *int
}

// ScanLogRepository persists scan attempts as an append-only audit trail.
// Entries are never updated or deleted; Append assigns the id and timestamp.
type ScanLogRepository interface {
	Append(ctx context.Context, entry models.ScanLog) (models.ScanLog, error)
	List(ctx context.Context, f ScanLogFilter) ([]models.ScanLog, int, error)
}
