package scan

import (
	"sort"
	"strings"

	"github.com/rogerio-castellano/medicine-tracker/internal/models"
	"github.com/rogerio-castellano/medicine-tracker/internal/repo"
	"github.com/rogerio-castellano/medicine-tracker/internal/similarity"
)

// SearchThreshold is the minimum score, exclusive, on a 0-100 scale for a
// medicine to appear in search results.
const SearchThreshold = 60

// Search filters medicines by free-text query. An empty query returns every
// medicine in the given order with a zero score. Otherwise each medicine is
// scored by the better of its name and batch number, medicines scoring above
// SearchThreshold are kept, best first; equal scores keep the given order.
func Search(query string, medicines []models.Medicine) []repo.ScoredMedicine {
	query = strings.TrimSpace(query)

	results := make([]repo.ScoredMedicine, 0, len(medicines))
	if query == "" {
		for _, m := range medicines {
			results = append(results, repo.ScoredMedicine{Medicine: m})
		}
		return results
	}

	for _, m := range medicines {
		score := max(similarity.TokenSortRatio(query, m.Name), similarity.TokenSortRatio(query, m.BatchNumber))
		if score > SearchThreshold {
			results = append(results, repo.ScoredMedicine{Medicine: m, Score: float64(score)})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
