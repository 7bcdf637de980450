package router_test

import (
	"net/http"
	"testing"

	"github.com/rogerio-castellano/medicine-tracker/internal/http/router"
	"github.com/rogerio-castellano/medicine-tracker/internal/repo"
)

func TestDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(newStores)
	r := router.NewRouter()

	createMedicine(t, r, newMedicine("Aspirin", "ASP-1"))

	low := newMedicine("Ibuprofen", "IBU-1")
	low.Stock = 3
	createMedicine(t, r, low)

	expired := newMedicine("Old Syrup", "OLD-1")
	expired.ExpiryDate = "2001-01-01"
	createMedicine(t, r, expired)

	scanData(r, "ASP-1", token)
	scanData(r, "IBU-1", userToken)
	scanData(r, "nothing here", token)

	w := doRequest(r, http.MethodGet, "/metrics/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	m := decode[repo.Metrics](t, w)
	want := repo.Metrics{
		TotalMedicines:    3,
		TotalScans:        3,
		RecognizedScans:   2,
		UnrecognizedScans: 1,
		LowStockCount:     1,
		ExpiredCount:      1,
	}
	if m != want {
		t.Errorf("expected %+v, got %+v", want, m)
	}

	if w := doRequest(r, http.MethodGet, "/metrics/dashboard", nil, userToken); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for non-admin, got %d", w.Code)
	}
}
