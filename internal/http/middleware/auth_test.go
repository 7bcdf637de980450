package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rogerio-castellano/medicine-tracker/internal/auth"
	"github.com/rogerio-castellano/medicine-tracker/internal/models"
)

func TestAuthMiddleware(t *testing.T) {
	token, err := auth.GenerateToken(models.User{ID: 3, Username: "nurse", Role: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var gotID int
	var gotName, gotRole string
	h := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotName, gotRole = GetUserID(r), GetUsername(r), GetRole(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if gotID != 3 || gotName != "nurse" || gotRole != "user" {
		t.Errorf("unexpected identity %d %s %s", gotID, gotName, gotRole)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for role, want := range map[string]int{"admin": http.StatusOK, "user": http.StatusForbidden} {
		token, _ := auth.GenerateToken(models.User{ID: 1, Username: "x", Role: role})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		AuthMiddleware(h).ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("role %s: expected %d, got %d", role, want, w.Code)
		}
	}
}
