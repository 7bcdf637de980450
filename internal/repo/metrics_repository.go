package repo

import "context"

// LowStockThreshold is the stock level below which a medicine counts as low.
const LowStockThreshold = 10

type Metrics struct {
	TotalMedicines    int `json:"total_medicines"`
	TotalScans        int `json:"total_scans"`
	RecognizedScans   int `json:"recognized_scans"`
	UnrecognizedScans int `json:"unrecognized_scans"`
	LowStockCount     int `json:"low_stock_count"`
	ExpiredCount      int `json:"expired_count"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
