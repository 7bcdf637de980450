package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/medicine-tracker/internal/medcode"
	models "github.com/rogerio-castellano/medicine-tracker/internal/models"
	repo "github.com/rogerio-castellano/medicine-tracker/internal/repo"
	"github.com/rogerio-castellano/medicine-tracker/internal/scan"
)

func toMedicineResponse(m models.Medicine) MedicineResponse {
	return MedicineResponse{
		Id:           m.ID,
		Name:         m.Name,
		GenericName:  m.GenericName,
		Manufacturer: m.Manufacturer,
		BatchNumber:  m.BatchNumber,
		ExpiryDate:   m.ExpiryDate.Format(DateLayout),
		Price:        m.Price,
		Stock:        m.Stock,
		Description:  m.Description,
		QRPayload:    medcode.Encode(m.ID, m.Name, m.BatchNumber),
		QRCodeURL:    fmt.Sprintf("/medicines/%d/qr", m.ID),
		LowStock:     m.Stock < repo.LowStockThreshold,
		Expired:      m.ExpiryDate.Before(time.Now()),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toMedicine(req MedicineRequest) models.Medicine {
	expiry, _ := time.Parse(DateLayout, req.ExpiryDate)
	return models.Medicine{
		Name:         strings.TrimSpace(req.Name),
		GenericName:  strings.TrimSpace(req.GenericName),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		BatchNumber:  strings.TrimSpace(req.BatchNumber),
		ExpiryDate:   expiry,
		Price:        req.Price,
		Stock:        req.Stock,
		Description:  req.Description,
	}
}

func medicineLocation(id int) http.Header {
	return http.Header{"Location": []string{fmt.Sprintf("/medicines/%d", id)}}
}

// CreateMedicineHandler godoc
// @Summary Create a new medicine
// @Description Adds a medicine to the inventory and generates its QR code
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param medicine body MedicineRequest true "Medicine to add"
// @Success 201 {object} MedicineResponse
// @Failure 400 {array} ValidationError
// @Failure 409 {string} string "Batch number already exists"
// @Router /medicines [post]
func CreateMedicineHandler(w http.ResponseWriter, r *http.Request) {
	var req MedicineRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateMedicine(req); len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := medicineService.Create(r.Context(), toMedicine(req))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create medicine: batch number duplicated", http.StatusConflict)
			return
		}
		log.Printf("❌ could not create medicine: %v", err)
		http.Error(w, "could not create medicine", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Medicine '%s' created (id=%d)", created.Name, created.ID)
	respond(w, http.StatusCreated, toMedicineResponse(created), medicineLocation(created.ID))
}

// GetMedicinesHandler godoc
// @Summary List or search medicines
// @Description Without q, lists every medicine, newest first. With q, returns medicines whose name or batch number scores above 60, best match first.
// @Tags medicines
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free-text search"
// @Success 200 {object} MedicinesSearchResult
// @Failure 500 {string} string "Internal error"
// @Router /medicines [get]
func GetMedicinesHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	medicines, err := medicineService.List(r.Context())
	if err != nil {
		http.Error(w, "could not fetch medicines", http.StatusInternalServerError)
		return
	}

	results := scan.Search(query, medicines)
	resp := MedicinesSearchResult{
		Query: query,
		Data:  make([]MedicineResponse, len(results)),
		Meta:  Meta{TotalCount: len(results)},
	}
	for i, s := range results {
		resp.Data[i] = toMedicineResponse(s.Medicine)
		resp.Data[i].Score = s.Score
	}
	respond(w, http.StatusOK, resp)
}

// NewMedicineFormHandler godoc
// @Summary Pre-fill a new medicine from scanned data
// @Description Decodes a MED- code passed in data into the name and batch number of a new medicine
// @Tags medicines
// @Produce json
// @Security BearerAuth
// @Param data query string false "Scanned data"
// @Success 200 {object} MedicinePrefillResponse
// @Router /medicines/new [get]
func NewMedicineFormHandler(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	resp := MedicinePrefillResponse{ScannedData: data}
	if name, batch, ok := medcode.Prefill(data); ok {
		resp.Name = name
		resp.BatchNumber = batch
	}
	respond(w, http.StatusOK, resp)
}

// GetMedicineByIDHandler godoc
// @Summary Get medicine by ID
// @Tags medicines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Success 200 {object} MedicineResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /medicines/{id} [get]
func GetMedicineByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid medicine ID", http.StatusBadRequest)
		return
	}

	medicine, err := medicineService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrMedicineNotFound) {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch medicine", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, toMedicineResponse(medicine))
}

// UpdateMedicineHandler godoc
// @Summary Update a medicine
// @Description Replaces the medicine fields and regenerates its QR code
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Param medicine body MedicineRequest true "Updated medicine"
// @Success 200 {object} MedicineResponse
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Batch number already exists"
// @Failure 500 {string} string "Internal error"
// @Router /medicines/{id} [put]
func UpdateMedicineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid medicine ID", http.StatusBadRequest)
		return
	}

	var req MedicineRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateMedicine(req); len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	medicine := toMedicine(req)
	medicine.ID = id
	updated, err := medicineService.Update(r.Context(), medicine)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrMedicineNotFound):
			http.Error(w, "medicine not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrDuplicatedValueUnique):
			http.Error(w, "could not update medicine: batch number duplicated", http.StatusConflict)
		default:
			log.Printf("❌ could not update medicine %d: %v", id, err)
			http.Error(w, "could not update medicine", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Medicine '%s' updated (id=%d)", updated.Name, updated.ID)
	respond(w, http.StatusOK, toMedicineResponse(updated))
}

// DeleteMedicineHandler godoc
// @Summary Delete a medicine
// @Description Scan log entries referring to the medicine are kept and lose their link
// @Tags medicines
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /medicines/{id} [delete]
func DeleteMedicineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid medicine ID", http.StatusBadRequest)
		return
	}
	if err := medicineService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrMedicineNotFound) {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete medicine", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustStockHandler godoc
// @Summary Adjust stock of a medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Param adjustment body StockAdjustmentRequest true "Stock change"
// @Success 200 {object} MedicineResponse
// @Failure 400 {string} string "Invalid adjustment"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Stock cannot be negative"
// @Failure 500 {string} string "Internal error"
// @Router /medicines/{id}/adjust [post]
func AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid medicine ID", http.StatusBadRequest)
		return
	}

	var req StockAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	medicine, err := medicineService.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrMedicineNotFound):
			http.Error(w, "medicine not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrInvalidStockChange):
			http.Error(w, "stock cannot be negative", http.StatusConflict)
		default:
			http.Error(w, "could not update stock", http.StatusInternalServerError)
		}
		return
	}

	if medicine.Stock < repo.LowStockThreshold {
		log.Printf("⚠️ ALERT: Medicine %d (%s) is low on stock! Stock=%d", medicine.ID, medicine.Name, medicine.Stock)
	}
	respond(w, http.StatusOK, toMedicineResponse(medicine))
}

// GetMedicineQRHandler godoc
// @Summary Download the QR code of a medicine
// @Tags medicines
// @Produce png
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Success 200 {file} binary
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /medicines/{id}/qr [get]
func GetMedicineQRHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid medicine ID", http.StatusBadRequest)
		return
	}

	png, err := medicineService.QRCode(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrMedicineNotFound) {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not render QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="qr_%d.png"`, id))
	if _, err := w.Write(png); err != nil {
		log.Printf("Failed to write QR code: %v", err)
	}
}
