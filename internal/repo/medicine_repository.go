package repo

import (
	"context"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

// MedicineRepository defines the persistence operations on medicine records.
// GetAll returns records newest first.
type MedicineRepository interface {
	Create(ctx context.Context, m models.Medicine) (models.Medicine, error)
	GetAll(ctx context.Context) ([]models.Medicine, error)
	GetByID(ctx context.Context, id int) (models.Medicine, error)
	GetByBatchNumber(ctx context.Context, batchNumber string) (models.Medicine, error)
	BatchNumberExists(ctx context.Context, batchNumber string) (bool, error)
	Update(ctx context.Context, m models.Medicine) (models.Medicine, error)
	Delete(ctx context.Context, id int) error
	AdjustStock(ctx context.Context, id int, delta int) (models.Medicine, error)
}
