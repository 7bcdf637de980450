package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

// InMemoryMedicineRepository is an in-memory implementation of MedicineRepository.
type InMemoryMedicineRepository struct {
	mu          sync.RWMutex
	medicines   []models.Medicine
	nextID      int
	deleteHooks []func(id int)
}

// NewInMemoryMedicineRepository creates a new instance of InMemoryMedicineRepository.
func NewInMemoryMedicineRepository() *InMemoryMedicineRepository {
	return &InMemoryMedicineRepository{
		medicines: []models.Medicine{},
		nextID:    1,
	}
}

// OnDelete registers fn to be called with the id of every deleted medicine.
func (r *InMemoryMedicineRepository) OnDelete(fn func(id int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteHooks = append(r.deleteHooks, fn)
}

// Create adds a new medicine to the repository.
func (r *InMemoryMedicineRepository) Create(_ context.Context, m models.Medicine) (models.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfBatch(m.BatchNumber) >= 0 {
		return models.Medicine{}, ErrDuplicatedValueUnique
	}
	if m.Stock < 0 {
		return models.Medicine{}, ErrInvalidStockChange
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	m.ID = r.nextID
	r.nextID++
	r.medicines = append(r.medicines, m)
	return m, nil
}

// GetAll retrieves all medicines, most recently created first.
func (r *InMemoryMedicineRepository) GetAll(_ context.Context) ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Medicine, len(r.medicines))
	copy(all, r.medicines)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// GetByID retrieves a medicine by its ID.
func (r *InMemoryMedicineRepository) GetByID(_ context.Context, id int) (models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.medicines {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Medicine{}, ErrMedicineNotFound
}

// GetByBatchNumber retrieves a medicine by its exact batch number.
func (r *InMemoryMedicineRepository) GetByBatchNumber(_ context.Context, batchNumber string) (models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfBatch(batchNumber); i >= 0 {
		return r.medicines[i], nil
	}
	return models.Medicine{}, ErrMedicineNotFound
}

func (r *InMemoryMedicineRepository) BatchNumberExists(_ context.Context, batchNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOfBatch(batchNumber) >= 0, nil
}

// Update modifies an existing medicine in the repository.
func (r *InMemoryMedicineRepository) Update(_ context.Context, m models.Medicine) (models.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOfBatch(m.BatchNumber); i >= 0 && r.medicines[i].ID != m.ID {
		return models.Medicine{}, ErrDuplicatedValueUnique
	}
	if m.Stock < 0 {
		return models.Medicine{}, ErrInvalidStockChange
	}

	for i, existing := range r.medicines {
		if existing.ID == m.ID {
			m.CreatedAt = existing.CreatedAt
			if m.UpdatedAt.IsZero() {
				m.UpdatedAt = time.Now().UTC()
			}
			r.medicines[i] = m
			return m, nil
		}
	}
	return models.Medicine{}, ErrMedicineNotFound
}

// Delete removes a medicine from the repository by its ID.
func (r *InMemoryMedicineRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	idx := -1
	for i, m := range r.medicines {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return ErrMedicineNotFound
	}
	r.medicines = append(r.medicines[:idx], r.medicines[idx+1:]...)
	hooks := r.deleteHooks
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
	return nil
}

// AdjustStock applies delta to the stock of a medicine, refusing to go below zero.
func (r *InMemoryMedicineRepository) AdjustStock(_ context.Context, id int, delta int) (models.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.medicines {
		if m.ID != id {
			continue
		}
		if m.Stock+delta < 0 {
			return models.Medicine{}, ErrInvalidStockChange
		}
		m.Stock += delta
		m.UpdatedAt = time.Now().UTC()
		r.medicines[i] = m
		return m, nil
	}
	return models.Medicine{}, ErrMedicineNotFound
}

func (r *InMemoryMedicineRepository) indexOfBatch(batchNumber string) int {
	for i, m := range r.medicines {
		if m.BatchNumber == batchNumber {
			return i
		}
	}
	return -1
}
