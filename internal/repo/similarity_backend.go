package repo

import (
	"context"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

// ScoredMedicine pairs a medicine with a similarity score.
type ScoredMedicine struct {
	Medicine models.Medicine `json:"medicine"`
	Score    float64         `json:"score"`
}

// SimilarityBackend scores stored medicines by batch-number similarity.
// It is optional: callers must check Available before using it.
type SimilarityBackend interface {
	Available() bool
	// BatchSimilarity returns medicines whose batch number scores above
	// minScore against query, on a [0,1] scale, best first.
	BatchSimilarity(ctx context.Context, query string, minScore float64) ([]ScoredMedicine, error)
}
