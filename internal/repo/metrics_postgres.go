package repo

import (
	"context"
	"database/sql"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m Metrics

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE stock < $1),
			COUNT(*) FILTER (WHERE expiry_date < CURRENT_DATE)
		FROM medicines`, LowStockThreshold).
		Scan(&m.TotalMedicines, &m.LowStockCount, &m.ExpiredCount)
	if err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE recognized)
		FROM scan_logs`).
		Scan(&m.TotalScans, &m.RecognizedScans)
	if err != nil {
		return m, err
	}
	m.UnrecognizedScans = m.TotalScans - m.RecognizedScans

	return m, nil
}
