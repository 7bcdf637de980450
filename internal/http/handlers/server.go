package handlers

import (
	"github.com/rogerio-castellano/medicine-tracker/internal/inventory"
	repo "github.com/rogerio-castellano/medicine-tracker/internal/repo"
	"github.com/rogerio-castellano/medicine-tracker/internal/scan"
)

var (
	medicineRepo      repo.MedicineRepository
	scanLogRepo       repo.ScanLogRepository
	metricsRepo       repo.MetricsRepository
	userRepo          repo.UserRepository
	similarityBackend repo.SimilarityBackend

	medicineService *inventory.Service
	resolver        *scan.Resolver
)

func SetMedicineRepo(r repo.MedicineRepository) {
	medicineRepo = r
	medicineService = inventory.NewService(r)
	rebuildResolver()
}

func SetScanLogRepo(r repo.ScanLogRepository) {
	scanLogRepo = r
	rebuildResolver()
}

// SetSimilarityBackend enables fuzzy batch matching on scans; nil disables it.
func SetSimilarityBackend(b repo.SimilarityBackend) {
	similarityBackend = b
	rebuildResolver()
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func rebuildResolver() {
	resolver = scan.NewResolver(medicineRepo, scanLogRepo, similarityBackend)
}
