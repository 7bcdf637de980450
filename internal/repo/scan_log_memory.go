package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

type InMemoryScanLogRepository struct {
	mu      sync.RWMutex
	entries []models.ScanLog
}

func NewInMemoryScanLogRepository() *InMemoryScanLogRepository {
	return &InMemoryScanLogRepository{
		entries: []models.ScanLog{},
	}
}

// Append stores a copy of entry with a fresh id and timestamp.
func (r *InMemoryScanLogRepository) Append(_ context.Context, entry models.ScanLog) (models.ScanLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = len(r.entries) + 1
	entry.Timestamp = time.Now().UTC()
	if entry.MedicineID != nil {
		id := *entry.MedicineID
		entry.MedicineID = &id
	}
	r.entries = append(r.entries, entry)
	return cloneScanLog(entry), nil
}

// List returns matching entries, newest first, and the total number of matches.
func (r *InMemoryScanLogRepository) List(_ context.Context, f ScanLogFilter) ([]models.ScanLog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.ScanLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.MedicineID != nil && (e.MedicineID == nil || *e.MedicineID != *f.MedicineID) {
			continue
		}
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.Recognized != nil && e.Recognized != *f.Recognized {
			continue
		}
		filtered = append(filtered, cloneScanLog(e))
	}

	start, end := page(len(filtered), f.Offset, f.Limit)
	return filtered[start:end], len(filtered), nil
}

// DetachMedicine clears the link of every entry pointing at a deleted medicine.
func (r *InMemoryScanLogRepository) DetachMedicine(medicineID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].MedicineID != nil && *r.entries[i].MedicineID == medicineID {
			r.entries[i].MedicineID = nil
		}
	}
}

func cloneScanLog(e models.ScanLog) models.ScanLog {
	if e.MedicineID != nil {
		id := *e.MedicineID
		e.MedicineID = &id
	}
	return e
}
