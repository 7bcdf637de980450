package repo

import (
	"context"
	"time"
)

type InMemoryMetricsRepository struct {
	medicineRepo MedicineRepository
	scanLogRepo  ScanLogRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	medicines, err := i.medicineRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalMedicines = len(medicines)

	now := time.Now()
	for _, med := range medicines {
		if med.Stock < LowStockThreshold {
			m.LowStockCount++
		}
		if med.ExpiryDate.Before(now) {
			m.ExpiredCount++
		}
	}

	recognized := true
	_, m.RecognizedScans, err = i.scanLogRepo.List(ctx, ScanLogFilter{Recognized: &recognized})
	if err != nil {
		return m, err
	}
	_, m.TotalScans, err = i.scanLogRepo.List(ctx, ScanLogFilter{})
	if err != nil {
		return m, err
	}
	m.UnrecognizedScans = m.TotalScans - m.RecognizedScans

	return m, nil
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	medicineRepo MedicineRepository,
	scanLogRepo ScanLogRepository,
) {
	i.medicineRepo = medicineRepo
	i.scanLogRepo = scanLogRepo
}
