package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okabrera/medbill/core"
)

func TestLoginShouldDecodeTokenPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "acc",
			"refresh_token": "ref",
			"token_type":    "Bearer",
		})
	}))
	defer srv.Close()

	pair, err := New(srv.URL, nil).Login(t.Context(), "ana", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken != "acc" || pair.RefreshToken != "ref" || pair.TokenType != "Bearer" {
		t.Errorf("unexpected pair: %+v", pair)
	}
}

func TestLoginFailuresShouldCollapseToErrLoginFailed(t *testing.T) {
	for _, status := range []int{400, 401, 403, 500, 502} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		_, err := New(srv.URL, nil).Login(t.Context(), "ana", "bad")
		srv.Close()
		if !errors.Is(err, core.ErrLoginFailed) {
			t.Errorf("status %d: expected ErrLoginFailed, got %v", status, err)
		}
	}

	// Unreachable host is the same single signal.
	_, err := New("http://127.0.0.1:1", nil).Login(t.Context(), "ana", "secret")
	if !errors.Is(err, core.ErrLoginFailed) {
		t.Errorf("network failure: expected ErrLoginFailed, got %v", err)
	}

	// So is a malformed body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{oops"))
	}))
	defer srv.Close()
	_, err = New(srv.URL, nil).Login(t.Context(), "ana", "secret")
	if !errors.Is(err, core.ErrLoginFailed) {
		t.Errorf("malformed body: expected ErrLoginFailed, got %v", err)
	}
}

func TestMeShouldSendBearerAndDecodeUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer acc" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "u1", "email": "ana@clinic.test", "name": "Ana",
			"role": "billing_staff", "created_at": "2026-01-05T10:00:00Z",
		})
	}))
	defer srv.Close()

	user, err := New(srv.URL, nil).Me(t.Context(), "acc")
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.ID != "u1" || user.Role != core.RoleBillingStaff {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestAuthenticatedCallsShouldSignalUnauthorizedDistinctly(t *testing.T) {
	for _, status := range []int{401, 403} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := New(srv.URL, nil)

		if _, err := c.Me(t.Context(), "stale"); !errors.Is(err, core.ErrUnauthorized) {
			t.Errorf("Me status %d: expected ErrUnauthorized, got %v", status, err)
		}
		if _, err := c.ListInvoices(t.Context(), "stale"); !errors.Is(err, core.ErrUnauthorized) {
			t.Errorf("ListInvoices status %d: expected ErrUnauthorized, got %v", status, err)
		}
		if _, err := c.ListAudit(t.Context(), "stale"); !errors.Is(err, core.ErrUnauthorized) {
			t.Errorf("ListAudit status %d: expected ErrUnauthorized, got %v", status, err)
		}
		srv.Close()
	}
}

func TestListInvoicesShouldDecodeCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/invoices/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id":"1","number":"INV-001","patient_id":"p1","amount":15000,"status":"paid"},
			{"id":"2","number":"INV-002","patient_id":"p2","status":"unpaid"}
		]`))
	}))
	defer srv.Close()

	records, err := New(srv.URL, nil).ListInvoices(t.Context(), "acc")
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].AmountCents == nil || *records[0].AmountCents != 15000 {
		t.Errorf("record 1 amount wrong: %+v", records[0])
	}
	if records[1].AmountCents != nil {
		t.Error("missing amount should decode as nil, not zero")
	}
}

func TestListInvoicesGenericFailureShouldBePlainErrFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListInvoices(t.Context(), "acc")
	if err != core.ErrFetchFailed {
		t.Errorf("invoice failures stay collapsed, got %v", err)
	}
}

func TestListAuditShouldSubdivideGenericFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := New(srv.URL, nil)

	_, err := c.ListAudit(t.Context(), "acc")
	if !errors.Is(err, core.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Errorf("audit failure should name the server status, got %q", err)
	}

	_, err = New("http://127.0.0.1:1", nil).ListAudit(t.Context(), "acc")
	if !errors.Is(err, core.ErrFetchFailed) || !strings.Contains(err.Error(), "network") {
		t.Errorf("audit network failure should say so, got %v", err)
	}
}

func TestCreatePaymentShouldCarryIdempotencyKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		var in map[string]any
		json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "pay-1", "invoice_id": in["invoice_id"], "amount": in["amount"],
			"method": in["method"], "created_at": "2026-02-01T09:00:00Z",
		})
	}))
	defer srv.Close()

	payment, err := New(srv.URL, nil).CreatePayment(t.Context(), "acc", core.PaymentInput{
		InvoiceID:      "1",
		AmountCents:    5000,
		Method:         "card",
		IdempotencyKey: "key-123",
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if gotKey != "key-123" {
		t.Errorf("Idempotency-Key = %q, want key-123", gotKey)
	}
	if payment.ID != "pay-1" || payment.AmountCents != 5000 {
		t.Errorf("unexpected payment: %+v", payment)
	}
}
