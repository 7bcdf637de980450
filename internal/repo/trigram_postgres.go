package repo

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// PostgresTrigramBackend ranks medicines with pg_trgm's similarity() on batch_number.
type PostgresTrigramBackend struct {
	db        *sql.DB
	available bool
}

// NewPostgresTrigramBackend checks once for the pg_trgm extension; without it
// the backend reports itself unavailable.
func NewPostgresTrigramBackend(db *sql.DB) *PostgresTrigramBackend {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var installed bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'pg_trgm')`).Scan(&installed)
	if err != nil {
		log.Printf("⚠️ could not check pg_trgm extension: %v", err)
	}
	if !installed {
		log.Println("⚠️ pg_trgm not installed, fuzzy batch matching disabled")
	}

	return &PostgresTrigramBackend{db: db, available: err == nil && installed}
}

func (b *PostgresTrigramBackend) Available() bool {
	return b != nil && b.available
}

func (b *PostgresTrigramBackend) BatchSimilarity(ctx context.Context, query string, minScore float64) ([]ScoredMedicine, error) {
	sqlQuery := `SELECT ` + medicineColumns + `, similarity(batch_number, $1) AS score
		FROM medicines
		WHERE similarity(batch_number, $1) > $2
		ORDER BY score DESC, created_at DESC, id DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := b.db.QueryContext(ctx, sqlQuery, query, minScore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []ScoredMedicine
	for rows.Next() {
		var s ScoredMedicine
		m := &s.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.GenericName, &m.Manufacturer, &m.BatchNumber, &m.ExpiryDate,
			&m.Price, &m.Stock, &m.Description, &m.QRCode, &m.CreatedAt, &m.UpdatedAt, &s.Score); err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}
	return scored, rows.Err()
}
