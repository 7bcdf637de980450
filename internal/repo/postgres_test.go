package repo_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/medicine-tracker/internal/db"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
	"github.com/rogerio-castellano/medicine-tracker/internal/repo"
)

// openTestDatabase connects to TEST_DATABASE_URL and empties the schema.
// Tests using it are skipped when the variable is not set.
func openTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	database, err := db.Connect(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database))
	_, err = database.Exec(`TRUNCATE scan_logs, medicines, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return database
}

func TestPostgresRepositories(t *testing.T) {
	database := openTestDatabase(t)
	ctx := context.Background()

	users := repo.NewPostgresUserRepository(database)
	medicines := repo.NewPostgresMedicineRepository(database)
	logs := repo.NewPostgresScanLogRepository(database)

	user, err := users.CreateUser(ctx, models.User{Username: "admin", Role: "admin"})
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, models.User{Username: "admin"})
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	med, err := medicines.Create(ctx, newMedicine("Aspirin", "BATCH001", 5))
	require.NoError(t, err)
	_, err = medicines.Create(ctx, newMedicine("Other", "BATCH001", 5))
	assert.ErrorIs(t, err, repo.ErrDuplicatedValueUnique)

	got, err := medicines.GetByBatchNumber(ctx, "BATCH001")
	require.NoError(t, err)
	assert.Equal(t, med.ID, got.ID)

	_, err = medicines.AdjustStock(ctx, med.ID, -6)
	assert.ErrorIs(t, err, repo.ErrInvalidStockChange)

	logged, err := logs.Append(ctx, models.ScanLog{ScannedData: "BATCH001", Recognized: true, MedicineID: &med.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.NotZero(t, logged.ID)

	require.NoError(t, medicines.Delete(ctx, med.ID))

	entries, total, err := logs.List(ctx, repo.ScanLogFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.True(t, entries[0].Recognized)
	assert.Nil(t, entries[0].MedicineID)

	m, err := repo.NewPostgresMetricsRepository(database).GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalScans)
	assert.Equal(t, 1, m.RecognizedScans)
	assert.Zero(t, m.TotalMedicines)
}

func TestPostgresTrigramBackend(t *testing.T) {
	database := openTestDatabase(t)
	ctx := context.Background()

	backend := repo.NewPostgresTrigramBackend(database)
	if !backend.Available() {
		t.Skip("pg_trgm not installed")
	}

	medicines := repo.NewPostgresMedicineRepository(database)
	_, err := medicines.Create(ctx, newMedicine("Aspirin", "BATCH001", 1))
	require.NoError(t, err)
	_, err = medicines.Create(ctx, newMedicine("Syrup", "LOT-XY", 1))
	require.NoError(t, err)

	scored, err := backend.BatchSimilarity(ctx, "BATCH0O1", 0.3)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, "BATCH001", scored[0].Medicine.BatchNumber)
	assert.InDelta(t, 0.5, scored[0].Score, 1e-6)
}
