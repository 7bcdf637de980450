package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/medicine-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/medicine-tracker/internal/http/router"
)

func importCSV(r http.Handler, csvData, mode string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvData, "medicines.csv")

	path := "/medicines/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportMedicinesHandler(t *testing.T) {
	r := router.NewRouter()

	t.Run("File with unique valid medicines", func(t *testing.T) {
		t.Cleanup(newStores)
		csvData := `name,generic_name,manufacturer,batch_number,expiry_date,price,stock,description
Aspirin,acetylsalicylic acid,Bayer,ASP-1,2099-01-31,3.50,40,Pain relief
Ibuprofen,,Acme,IBU-1,2099-06-30,5.00,12,`

		w := importCSV(r, csvData, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}

		resp := decode[handler.ImportMedicinesResult](t, w)
		if resp.ImportedMedicinesCount != 2 {
			t.Errorf("expected 2 imported medicines, got %d", resp.ImportedMedicinesCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}

		med, err := medicineRepo.GetByBatchNumber(testContext(t), "ASP-1")
		if err != nil {
			t.Fatalf("imported medicine not found: %v", err)
		}
		if med.GenericName != "acetylsalicylic acid" || len(med.QRCode) == 0 {
			t.Errorf("unexpected imported medicine %+v", med)
		}
	})

	t.Run("File with one invalid medicine", func(t *testing.T) {
		t.Cleanup(newStores)
		csvData := `name,manufacturer,batch_number,expiry_date,price,stock
Aspirin,Bayer,ASP-1,2099-01-31,3.50,40
Broken,Bayer,BRK-1,2099-01-31,0,40
Ibuprofen,Acme,IBU-1,2099-06-30,5.00,12`

		resp := decode[handler.ImportMedicinesResult](t, importCSV(r, csvData, ""))
		if resp.ImportedMedicinesCount != 2 {
			t.Errorf("expected 2 imported medicines, got %d", resp.ImportedMedicinesCount)
		}
		if len(resp.Errors) != 1 {
			t.Fatalf("expected 1 error, got %v", resp.Errors)
		}
		if resp.Errors[0].Field != "row 3" || !strings.Contains(resp.Errors[0].Description, "Price") {
			t.Errorf("expected price error on row 3, got %+v", resp.Errors[0])
		}
	})

	t.Run("Unparsable numbers", func(t *testing.T) {
		t.Cleanup(newStores)
		csvData := `name,manufacturer,batch_number,expiry_date,price,stock
Aspirin,Bayer,ASP-1,2099-01-31,abc,40
Ibuprofen,Acme,IBU-1,2099-06-30,5.00,many`

		resp := decode[handler.ImportMedicinesResult](t, importCSV(r, csvData, ""))
		if resp.ImportedMedicinesCount != 0 || len(resp.Errors) != 2 {
			t.Fatalf("expected 2 rejected rows, got %+v", resp)
		}
		if resp.Errors[0].Description != "invalid price" || resp.Errors[1].Description != "invalid stock" {
			t.Errorf("unexpected errors %+v", resp.Errors)
		}
	})

	t.Run("Duplicated batch in default mode (skip)", func(t *testing.T) {
		t.Cleanup(newStores)
		csvData := `name,manufacturer,batch_number,expiry_date,price,stock
Aspirin,Bayer,ASP-1,2099-01-31,3.50,40
Aspirin Plus,Bayer,ASP-1,2099-01-31,4.50,10`

		resp := decode[handler.ImportMedicinesResult](t, importCSV(r, csvData, ""))
		if resp.ImportedMedicinesCount != 1 || len(resp.Errors) != 1 {
			t.Fatalf("expected 1 imported and 1 skipped, got %+v", resp)
		}
		if !strings.Contains(resp.Errors[0].Description, "already exists") {
			t.Errorf("unexpected error %+v", resp.Errors[0])
		}

		med, _ := medicineRepo.GetByBatchNumber(testContext(t), "ASP-1")
		if med.Name != "Aspirin" {
			t.Errorf("expected the first row to be kept, got %s", med.Name)
		}
	})

	t.Run("Duplicated batch in update mode", func(t *testing.T) {
		t.Cleanup(newStores)
		existing := createMedicine(t, r, newMedicine("Aspirin", "ASP-1"))

		csvData := `name,manufacturer,batch_number,expiry_date,price,stock
Aspirin Plus,Bayer,ASP-1,2099-01-31,4.50,10`

		resp := decode[handler.ImportMedicinesResult](t, importCSV(r, csvData, "update"))
		if resp.ImportedMedicinesCount != 1 || len(resp.Errors) != 0 {
			t.Fatalf("expected 1 updated, got %+v", resp)
		}

		med, _ := medicineRepo.GetByID(testContext(t), existing.Id)
		if med.Name != "Aspirin Plus" || med.Stock != 10 {
			t.Errorf("expected updated medicine, got %+v", med)
		}
	})

	t.Run("Missing column", func(t *testing.T) {
		w := importCSV(r, "name,price\nAspirin,3.5", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/medicines/import", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 Bad Request, got %d", w.Code)
		}
	})
}
