package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

const medicineColumns = `id, name, generic_name, manufacturer, batch_number, expiry_date, price, stock, description, qr_code, created_at, updated_at`

type PostgresMedicineRepository struct {
	db *sql.DB
}

func NewPostgresMedicineRepository(db *sql.DB) *PostgresMedicineRepository {
	return &PostgresMedicineRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedicine(row rowScanner) (models.Medicine, error) {
	var m models.Medicine
	err := row.Scan(&m.ID, &m.Name, &m.GenericName, &m.Manufacturer, &m.BatchNumber, &m.ExpiryDate,
		&m.Price, &m.Stock, &m.Description, &m.QRCode, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresMedicineRepository) Create(ctx context.Context, m models.Medicine) (models.Medicine, error) {
	query := `INSERT INTO medicines (name, generic_name, manufacturer, batch_number, expiry_date, price, stock, description, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	err := r.db.QueryRowContext(ctx, query, m.Name, m.GenericName, m.Manufacturer, m.BatchNumber, m.ExpiryDate,
		m.Price, m.Stock, m.Description, m.QRCode, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if isUniqueViolation(err) {
		return models.Medicine{}, ErrDuplicatedValueUnique
	}
	return m, err
}

func (r *PostgresMedicineRepository) GetAll(ctx context.Context) ([]models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY created_at DESC, id DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medicines []models.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func (r *PostgresMedicineRepository) GetByID(ctx context.Context, id int) (models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	m, err := scanMedicine(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Medicine{}, ErrMedicineNotFound
	}
	return m, err
}

func (r *PostgresMedicineRepository) GetByBatchNumber(ctx context.Context, batchNumber string) (models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE batch_number = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	m, err := scanMedicine(r.db.QueryRowContext(ctx, query, batchNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Medicine{}, ErrMedicineNotFound
	}
	return m, err
}

func (r *PostgresMedicineRepository) BatchNumberExists(ctx context.Context, batchNumber string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM medicines WHERE batch_number = $1)`, batchNumber).Scan(&exists)
	return exists, err
}

func (r *PostgresMedicineRepository) Update(ctx context.Context, m models.Medicine) (models.Medicine, error) {
	query := `UPDATE medicines
		SET name = $1, generic_name = $2, manufacturer = $3, batch_number = $4, expiry_date = $5,
			price = $6, stock = $7, description = $8, qr_code = $9, updated_at = $10
		WHERE id = $11
		RETURNING created_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query, m.Name, m.GenericName, m.Manufacturer, m.BatchNumber, m.ExpiryDate,
		m.Price, m.Stock, m.Description, m.QRCode, m.UpdatedAt, m.ID).Scan(&m.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Medicine{}, ErrMedicineNotFound
	case isUniqueViolation(err):
		return models.Medicine{}, ErrDuplicatedValueUnique
	case err != nil:
		return models.Medicine{}, err
	}
	return m, nil
}

// Delete removes the medicine; scan_logs.medicine_id is set to NULL by the foreign key.
func (r *PostgresMedicineRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrMedicineNotFound
	}
	return nil
}

func (r *PostgresMedicineRepository) AdjustStock(ctx context.Context, id int, delta int) (models.Medicine, error) {
	query := `
		UPDATE medicines
		SET stock = stock + $1, updated_at = $2
		WHERE id = $3 AND stock + $1 >= 0
		RETURNING ` + medicineColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	m, err := scanMedicine(r.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrMedicineNotFound) {
			return models.Medicine{}, ErrMedicineNotFound
		}
		return models.Medicine{}, ErrInvalidStockChange
	}
	return m, err
}
