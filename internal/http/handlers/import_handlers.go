package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	repo "github.com/rogerio-castellano/medicine-tracker/internal/repo"
)

var requiredImportColumns = []string{"name", "manufacturer", "batch_number", "expiry_date", "price", "stock"}

type csvRow struct {
	line int
	req  MedicineRequest
	err  error
}

func parseCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				rows = append(rows, csvRow{line: line, err: errors.New("wrong number of fields")})
				continue
			}
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{line: line, req: MedicineRequest{
			Name:         field(record, "name"),
			GenericName:  field(record, "generic_name"),
			Manufacturer: field(record, "manufacturer"),
			BatchNumber:  field(record, "batch_number"),
			ExpiryDate:   field(record, "expiry_date"),
			Description:  field(record, "description"),
		}}
		if row.req.Price, err = strconv.ParseFloat(field(record, "price"), 64); err != nil {
			row.err = errors.New("invalid price")
		} else if row.req.Stock, err = strconv.Atoi(field(record, "stock")); err != nil {
			row.err = errors.New("invalid stock")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportMedicinesHandler godoc
// @Summary Import medicines via CSV
// @Description Columns: name, generic_name, manufacturer, batch_number, expiry_date, price, stock, description. Rows are matched on batch number.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportMedicinesResult
// @Failure 400 {string} string "Invalid file"
// @Router /medicines/import [post]
// @Security BearerAuth
func ImportMedicinesHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip"
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported := 0
	errorsList := []ValidationError{}
	rowError := func(line int, format string, args ...any) {
		errorsList = append(errorsList, ValidationError{
			Field:       fmt.Sprintf("row %d", line),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for _, row := range rows {
		if row.err != nil {
			rowError(row.line, "%v", row.err)
			continue
		}
		if invalid := validateMedicine(row.req); len(invalid) > 0 {
			rowError(row.line, "%s", invalid[0].Description)
			continue
		}

		medicine := toMedicine(row.req)
		existing, err := medicineRepo.GetByBatchNumber(r.Context(), medicine.BatchNumber)
		switch {
		case err == nil:
			if mode == "skip" {
				rowError(row.line, "batch '%s' already exists", medicine.BatchNumber)
				continue
			}
			medicine.ID = existing.ID
			if _, err := medicineService.Update(r.Context(), medicine); err != nil {
				rowError(row.line, "failed to update batch '%s'", medicine.BatchNumber)
				continue
			}
		case errors.Is(err, repo.ErrMedicineNotFound):
			if _, err := medicineService.Create(r.Context(), medicine); err != nil {
				rowError(row.line, "%v", err)
				continue
			}
		default:
			log.Printf("❌ import lookup failed for batch '%s': %v", medicine.BatchNumber, err)
			rowError(row.line, "failed to look up batch '%s'", medicine.BatchNumber)
			continue
		}
		imported++
	}

	log.Printf("📦 Imported %d medicines (%d rejected, mode=%s)", imported, len(errorsList), mode)
	respond(w, http.StatusOK, ImportMedicinesResult{
		ImportedMedicinesCount: imported,
		Errors:                 errorsList,
	})
}
