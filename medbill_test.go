package medbill

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okabrera/medbill/services"
)

func TestNewShouldValidateConfig(t *testing.T) {
	if _, err := New(Config{Store: services.NewFakeStore()}); !errors.Is(err, ErrBaseURLRequired) {
		t.Errorf("missing base URL: got %v", err)
	}
	if _, err := New(Config{BaseURL: "http://localhost:8000"}); !errors.Is(err, ErrStoreRequired) {
		t.Errorf("missing store: got %v", err)
	}
	if _, err := New(Config{BaseURL: "http://localhost:8000", Store: services.NewFakeStore()}); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

// End-to-end pass over a fake service: login, refresh the dashboard,
// logout.
func TestClientShouldDriveFullSessionFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "acc", "refresh_token": "ref", "token_type": "Bearer",
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id": "u1", "email": "ana@clinic.test", "name": "Ana", "role": "billing_staff",
		})
	})
	mux.HandleFunc("GET /invoices/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "amount": 15000, "status": "paid"},
			{"id": "2", "amount": 23000, "status": "unpaid"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Store: services.NewFakeStore()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	if err := client.Session.Login(ctx, "ana", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !client.Session.IsAuthenticated() {
		t.Fatal("session should be authenticated after login")
	}

	view, err := client.Dashboard.Refresh(ctx, false)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if view.Metrics.TotalCents != 38000 || view.Metrics.OutstandingCents != 23000 {
		t.Errorf("unexpected metrics: %+v", view.Metrics)
	}

	client.Session.Logout(ctx)
	if client.Session.IsAuthenticated() {
		t.Error("session should be cleared after logout")
	}
	if _, err := client.Dashboard.Refresh(ctx, false); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("refresh after logout: got %v", err)
	}
}
