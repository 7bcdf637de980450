// Package inventory manages medicine records and keeps their QR payload in
// sync with the identity it encodes.
package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rogerio-castellano/medicine-tracker/internal/medcode"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
	"github.com/rogerio-castellano/medicine-tracker/internal/repo"
)

type Service struct {
	medicines repo.MedicineRepository
}

func NewService(medicines repo.MedicineRepository) *Service {
	return &Service{medicines: medicines}
}

// Create stores a new medicine. The QR payload embeds the medicine id, which
// only exists after the first insert, so creation is two writes: insert
// without payload, then update with the rendered code. If the second write
// fails the inserted row is removed again.
func (s *Service) Create(ctx context.Context, m models.Medicine) (models.Medicine, error) {
	now := time.Now().UTC()
	m.ID = 0
	m.QRCode = nil
	m.CreatedAt, m.UpdatedAt = now, now

	created, err := s.medicines.Create(ctx, m)
	if err != nil {
		return models.Medicine{}, err
	}

	withCode, err := s.save(ctx, created)
	if err != nil {
		if delErr := s.medicines.Delete(ctx, created.ID); delErr != nil {
			log.Printf("❌ could not remove medicine %d after failed QR update: %v", created.ID, delErr)
		}
		return models.Medicine{}, err
	}
	return withCode, nil
}

// Update saves m and regenerates its QR payload.
func (s *Service) Update(ctx context.Context, m models.Medicine) (models.Medicine, error) {
	m.UpdatedAt = time.Now().UTC()
	return s.save(ctx, m)
}

func (s *Service) save(ctx context.Context, m models.Medicine) (models.Medicine, error) {
	png, err := medcode.Render(medcode.Encode(m.ID, m.Name, m.BatchNumber))
	if err != nil {
		return models.Medicine{}, err
	}
	m.QRCode = png
	return s.medicines.Update(ctx, m)
}

func (s *Service) Get(ctx context.Context, id int) (models.Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.Medicine, error) {
	return s.medicines.GetAll(ctx)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.medicines.Delete(ctx, id)
}

func (s *Service) AdjustStock(ctx context.Context, id, delta int) (models.Medicine, error) {
	return s.medicines.AdjustStock(ctx, id, delta)
}

// QRCode returns the stored PNG of a medicine, rendering it if it is missing.
func (s *Service) QRCode(ctx context.Context, id int) ([]byte, error) {
	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(m.QRCode) > 0 {
		return m.QRCode, nil
	}

	png, err := medcode.Render(medcode.Encode(m.ID, m.Name, m.BatchNumber))
	if err != nil {
		return nil, fmt.Errorf("medicine %d: %w", id, err)
	}
	return png, nil
}
