package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

type PostgresScanLogRepository struct {
	db *sql.DB
}

func NewPostgresScanLogRepository(db *sql.DB) *PostgresScanLogRepository {
	return &PostgresScanLogRepository{db: db}
}

// Append inserts a single audit entry in its own statement.
func (r *PostgresScanLogRepository) Append(ctx context.Context, entry models.ScanLog) (models.ScanLog, error) {
	query := `INSERT INTO scan_logs (scanned_data, recognized, medicine_id, user_id)
		VALUES ($1, $2, $3, $4) RETURNING id, timestamp`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var medicineID sql.NullInt64
	if entry.MedicineID != nil {
		medicineID = sql.NullInt64{Int64: int64(*entry.MedicineID), Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, entry.ScannedData, entry.Recognized, medicineID, entry.UserID).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return models.ScanLog{}, fmt.Errorf("failed to insert scan log: %w", err)
	}
	return entry, nil
}

func (r *PostgresScanLogRepository) List(ctx context.Context, f ScanLogFilter) ([]models.ScanLog, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	where, args := scanLogConditions(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_logs WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	limit := defaultScanLogLimit
	if f.Limit != nil && *f.Limit > 0 {
		limit = *f.Limit
	}
	offset := 0
	if f.Offset != nil && *f.Offset > 0 {
		offset = *f.Offset
	}

	query := fmt.Sprintf(`SELECT id, scanned_data, recognized, medicine_id, timestamp, user_id
		FROM scan_logs WHERE 1=1%s ORDER BY timestamp DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query scan logs: %w", err)
	}
	defer rows.Close()

	entries := []models.ScanLog{}
	for rows.Next() {
		var e models.ScanLog
		var medicineID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.ScannedData, &e.Recognized, &medicineID, &e.Timestamp, &e.UserID); err != nil {
			return nil, 0, err
		}
		if medicineID.Valid {
			id := int(medicineID.Int64)
			e.MedicineID = &id
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func scanLogConditions(f ScanLogFilter) (string, []any) {
	query := ""
	args := []any{}

	if f.MedicineID != nil {
		args = append(args, *f.MedicineID)
		query += fmt.Sprintf(" AND medicine_id = $%d", len(args))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if f.Recognized != nil {
		args = append(args, *f.Recognized)
		query += fmt.Sprintf(" AND recognized = $%d", len(args))
	}
	return query, args
}
