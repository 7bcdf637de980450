package repo

import (
	"context"
	"sort"

	"github.com/rogerio-castellano/medicine-tracker/internal/similarity"
)

// InMemoryTrigramBackend scores the records of a MedicineRepository with the
// same trigram similarity Postgres' pg_trgm uses.
type InMemoryTrigramBackend struct {
	medicines MedicineRepository
}

func NewInMemoryTrigramBackend(medicines MedicineRepository) *InMemoryTrigramBackend {
	return &InMemoryTrigramBackend{medicines: medicines}
}

func (b *InMemoryTrigramBackend) Available() bool {
	return b != nil && b.medicines != nil
}

func (b *InMemoryTrigramBackend) BatchSimilarity(ctx context.Context, query string, minScore float64) ([]ScoredMedicine, error) {
	all, err := b.medicines.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var scored []ScoredMedicine
	for _, m := range all {
		score := similarity.Trigram(m.BatchNumber, query)
		if score > minScore {
			scored = append(scored, ScoredMedicine{Medicine: m, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}
