package router_test

import (
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/medicine-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/medicine-tracker/internal/http/router"
)

func TestRegisterAndLogin(t *testing.T) {
	r := router.NewRouter()

	w := doRequest(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: "nurse", Password: "password1"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}
	registered := decode[handler.RegisterResult](t, w)
	if registered.Token == "" {
		t.Fatal("expected a token on registration")
	}

	if w := doRequest(r, http.MethodGet, "/medicines", nil, registered.Token); w.Code != http.StatusOK {
		t.Errorf("expected registration token to be accepted, got %d", w.Code)
	}

	t.Run("Duplicated username", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: "nurse", Password: "password2"}, "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409 Conflict, got %d", w.Code)
		}
	})

	t.Run("Short password", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: "doctor", Password: "123"}, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 Bad Request, got %d", w.Code)
		}
	})

	t.Run("Login", func(t *testing.T) {
		if _, err := generateToken(r, "nurse", "password1"); err != nil {
			t.Fatalf("expected login to succeed: %v", err)
		}
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/login", handler.CredentialsRequest{Username: "nurse", Password: "wrong"}, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/login", handler.CredentialsRequest{Username: "ghost", Password: "whatever"}, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	t.Run("Invalid token", func(t *testing.T) {
		if w := doRequest(r, http.MethodGet, "/medicines", nil, "not-a-token"); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 Unauthorized, got %d", w.Code)
		}
	})
}

func TestRegisterAsAdminHandler(t *testing.T) {
	r := router.NewRouter()

	req := handler.RegisterAsAdminRequest{Username: "auditor", Password: "password1", Role: "admin"}
	if w := doRequest(r, http.MethodPost, "/admin/users", req, userToken); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden for non-admin, got %d", w.Code)
	}

	if w := doRequest(r, http.MethodPost, "/admin/users", req, token); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/admin/users", req, token); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	auditorToken, err := generateToken(r, "auditor", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if w := doRequest(r, http.MethodGet, "/metrics/dashboard", nil, auditorToken); w.Code != http.StatusOK {
		t.Errorf("expected the new admin to reach admin routes, got %d", w.Code)
	}
}

func TestFederatedUserHandler(t *testing.T) {
	r := router.NewRouter()

	provision := func(email string) handler.FederatedUserResult {
		t.Helper()
		w := doRequest(r, http.MethodPost, "/admin/users/federated", handler.FederatedUserRequest{Email: email}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d", w.Code)
		}
		return decode[handler.FederatedUserResult](t, w)
	}

	first := provision("jane.roe@example.com")
	if first.Username != "jane.roe" {
		t.Errorf("expected jane.roe, got %s", first.Username)
	}
	if w := doRequest(r, http.MethodGet, "/medicines", nil, first.Token); w.Code != http.StatusOK {
		t.Errorf("expected federated token to be accepted, got %d", w.Code)
	}

	if second := provision("jane.roe@other.org"); second.Username != "jane.roe_1" {
		t.Errorf("expected jane.roe_1, got %s", second.Username)
	}

	if third := provision(""); len(third.Username) != 12 {
		t.Errorf("expected a random 12 character username, got %q", third.Username)
	}

	w := doRequest(r, http.MethodPost, "/admin/users/federated", handler.FederatedUserRequest{Email: "x@example.com"}, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for non-admin, got %d", w.Code)
	}
}
