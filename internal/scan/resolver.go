// Package scan decides which medicine, if any, a scanned or typed string
// refers to, and records every attempt in the scan audit log.
//
// Resolution runs in strict order: structured decode of a MED- code, exact
// batch number, then trigram similarity on batch numbers when a similarity
// backend is available. Only the first two stages resolve a scan; the
// similarity stage returns candidates for the user to choose from.
package scan

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rogerio-castellano/medicine-tracker/internal/medcode"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
	"github.com/rogerio-castellano/medicine-tracker/internal/repo"
)

// FuzzyThreshold is the minimum batch-number similarity, exclusive, for a
// medicine to be offered as a scan candidate.
const FuzzyThreshold = 0.3

// CreatePath is the form that not-found results link to.
const CreatePath = "/medicines/new"

var ErrEmptyInput = errors.New("no data was scanned or entered")

// MatchKind tells which exact stage resolved a scan.
type MatchKind string

const (
	MatchStructured  MatchKind = "structured"
	MatchBatchNumber MatchKind = "batch_number"
)

type Outcome string

const (
	OutcomeResolved   Outcome = "resolved"
	OutcomeCandidates Outcome = "candidates"
	OutcomeNotFound   Outcome = "not_found"
)

var notFoundSuggestions = []string{
	"Check if the QR code is clear and undamaged.",
	"Verify if the medicine has been registered in the system.",
	"If this is a new medicine, you can add it now.",
}

// Result is the outcome of one scan.
type Result struct {
	Outcome     Outcome
	Match       MatchKind
	Medicine    *models.Medicine
	Candidates  []repo.ScoredMedicine
	Message     string
	Suggestions []string
	CreateURL   string
	Log         models.ScanLog
}

type Resolver struct {
	medicines repo.MedicineRepository
	logs      repo.ScanLogRepository
	backend   repo.SimilarityBackend
}

// NewResolver builds a Resolver. backend may be nil, which disables the
// similarity stage.
func NewResolver(medicines repo.MedicineRepository, logs repo.ScanLogRepository, backend repo.SimilarityBackend) *Resolver {
	return &Resolver{medicines: medicines, logs: logs, backend: backend}
}

// Resolve runs the full resolution for text on behalf of userID and appends
// exactly one audit entry before returning. Empty text is rejected with
// ErrEmptyInput and is not logged.
func (r *Resolver) Resolve(ctx context.Context, text string, userID int) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyInput
	}

	entry := models.ScanLog{ScannedData: text, UserID: userID}

	med, kind, found, err := r.ResolveExact(ctx, text)
	if err != nil {
		return Result{}, err
	}
	if found {
		entry.Recognized = true
		entry.MedicineID = &med.ID
		logged, err := r.logs.Append(ctx, entry)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeResolved, Match: kind, Medicine: &med, Log: logged}, nil
	}

	candidates, err := r.ResolveFuzzy(ctx, text)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) > 0 {
		logged, err := r.logs.Append(ctx, entry)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeCandidates, Candidates: candidates, Log: logged}, nil
	}

	logged, err := r.logs.Append(ctx, entry)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Outcome:     OutcomeNotFound,
		Message:     fmt.Sprintf("Medicine not found for the scanned data: '%s'", text),
		Suggestions: append([]string(nil), notFoundSuggestions...),
		CreateURL:   CreateURL(text),
		Log:         logged,
	}, nil
}

// ResolveExact looks text up as a MED- code, then as a batch number.
// Lookup misses are not errors; only storage failures are returned.
func (r *Resolver) ResolveExact(ctx context.Context, text string) (models.Medicine, MatchKind, bool, error) {
	if text == "" {
		return models.Medicine{}, "", false, nil
	}

	if payload, err := medcode.Decode(text); err == nil {
		med, err := r.medicines.GetByID(ctx, payload.ID)
		switch {
		case err == nil:
			return med, MatchStructured, true, nil
		case !errors.Is(err, repo.ErrMedicineNotFound):
			return models.Medicine{}, "", false, err
		}
	}

	med, err := r.medicines.GetByBatchNumber(ctx, text)
	switch {
	case err == nil:
		return med, MatchBatchNumber, true, nil
	case errors.Is(err, repo.ErrMedicineNotFound):
		return models.Medicine{}, "", false, nil
	default:
		return models.Medicine{}, "", false, err
	}
}

// ResolveFuzzy ranks medicines whose batch number is similar to text.
// Without an available backend it returns no candidates.
func (r *Resolver) ResolveFuzzy(ctx context.Context, text string) ([]repo.ScoredMedicine, error) {
	if r.backend == nil || !r.backend.Available() {
		return nil, nil
	}

	scored, err := r.backend.BatchSimilarity(ctx, text, FuzzyThreshold)
	if err != nil {
		return nil, fmt.Errorf("similarity backend: %w", err)
	}

	candidates := make([]repo.ScoredMedicine, 0, len(scored))
	for _, s := range scored {
		if s.Score > FuzzyThreshold {
			candidates = append(candidates, s)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// CreateURL links to the creation form pre-filled with the scanned text.
func CreateURL(text string) string {
	return CreatePath + "?data=" + url.QueryEscape(text)
}
