package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	mw "github.com/rogerio-castellano/medicine-tracker/internal/http/middleware"
	repo "github.com/rogerio-castellano/medicine-tracker/internal/repo"
	"github.com/rogerio-castellano/medicine-tracker/internal/scan"
)

const emptyScanMessage = "No data was scanned or entered. Please try again."

// ScanHandler godoc
// @Summary Resolve scanned data to a medicine
// @Description Tries the MED- code, then the exact batch number, then similar batch numbers. Every non-empty scan is recorded in the scan log.
// @Tags scan
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param scan body ScanRequest true "Scanned data"
// @Success 200 {object} ScanResponse "Resolved medicine or candidate list"
// @Failure 400 {object} ErrorResponse "Nothing scanned"
// @Failure 404 {object} ScanResponse "No medicine found"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {string} string "Internal error"
// @Router /scan [post]
func ScanHandler(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		req.QRData = r.FormValue("qr_data")
	} else if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	result, err := resolver.Resolve(r.Context(), req.QRData, mw.GetUserID(r))
	if err != nil {
		if errors.Is(err, scan.ErrEmptyInput) {
			respond(w, http.StatusBadRequest, ErrorResponse{Error: emptyScanMessage})
			return
		}
		log.Printf("❌ scan failed: %v", err)
		http.Error(w, "could not process scan", http.StatusInternalServerError)
		return
	}

	resp := ScanResponse{
		Outcome:   string(result.Outcome),
		ScanLogID: result.Log.ID,
	}

	switch result.Outcome {
	case scan.OutcomeResolved:
		medicine := toMedicineResponse(*result.Medicine)
		resp.Match = string(result.Match)
		resp.Medicine = &medicine
		resp.Location = fmt.Sprintf("/medicines/%d", medicine.Id)
		respond(w, http.StatusOK, resp, medicineLocation(medicine.Id))

	case scan.OutcomeCandidates:
		resp.SearchTerm = result.Log.ScannedData
		resp.Matches = make([]ScanCandidate, len(result.Candidates))
		for i, c := range result.Candidates {
			resp.Matches[i] = ScanCandidate{Medicine: toMedicineResponse(c.Medicine), Score: c.Score}
		}
		respond(w, http.StatusOK, resp)

	default:
		log.Printf("🔍 Unrecognized scan %q by %s", result.Log.ScannedData, mw.GetUsername(r))
		resp.Error = result.Message
		resp.Suggestions = result.Suggestions
		resp.CreateURL = result.CreateURL
		respond(w, http.StatusNotFound, resp)
	}
}

// GetScanLogsHandler godoc
// @Summary List scan log entries
// @Description Admins see every entry, other users only their own. Newest first.
// @Tags scan
// @Produce json
// @Security BearerAuth
// @Param medicine_id query int false "Only scans linked to this medicine"
// @Param recognized query bool false "Filter by recognition result"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ScanLogsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /scans [get]
func GetScanLogsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repo.ScanLogFilter{
		MedicineID: parseIntPtr(q.Get("medicine_id")),
		Recognized: parseBoolPtr(q.Get("recognized")),
		Offset:     parseIntPtr(q.Get("offset")),
		Limit:      parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}
	if mw.GetRole(r) != "admin" {
		userID := mw.GetUserID(r)
		filter.UserID = &userID
	}

	entries, total, err := scanLogRepo.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "could not fetch scan logs", http.StatusInternalServerError)
		return
	}

	resp := ScanLogsSearchResult{
		Data: make([]ScanLogResponse, len(entries)),
		Meta: Meta{TotalCount: total},
	}
	for i, e := range entries {
		resp.Data[i] = ScanLogResponse{
			ID:          e.ID,
			ScannedData: e.ScannedData,
			Recognized:  e.Recognized,
			MedicineID:  e.MedicineID,
			UserID:      e.UserID,
			Timestamp:   e.Timestamp,
		}
	}
	respond(w, http.StatusOK, resp)
}
