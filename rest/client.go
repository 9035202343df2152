// Package rest implements the billing service's HTTP contract. It is the
// only place the wire format and status-code taxonomy live; everything
// above it deals in core types and sentinel errors.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okabrera/medbill/core"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ core.AuthAPI    = (*Client)(nil)
	_ core.BillingAPI = (*Client)(nil)
)

// New builds a client for the given base URL. httpClient may be nil; a
// default with a request timeout is used. The timeout is a caller policy,
// not part of the core contract - expiry reads as a generic fetch failure.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Login exchanges credentials for a token pair. Every failure mode - bad
// credentials, unreachable host, non-2xx, malformed body - collapses into
// ErrLoginFailed.
func (c *Client) Login(ctx context.Context, username, password string) (*core.TokenPair, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, core.ErrLoginFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, core.ErrLoginFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.ErrLoginFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, core.ErrLoginFailed
	}

	var pair core.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, core.ErrLoginFailed
	}
	return &pair, nil
}

// Me fetches the profile behind an access token.
func (c *Client) Me(ctx context.Context, accessToken string) (*core.User, error) {
	var user core.User
	if err := c.getJSON(ctx, "/auth/me", accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListInvoices fetches the billing-record collection. No retries; backoff
// policy belongs to the caller.
func (c *Client) ListInvoices(ctx context.Context, accessToken string) ([]core.Invoice, error) {
	var records []core.Invoice
	if err := c.getJSON(ctx, "/invoices/", accessToken, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAudit fetches the audit log. Unlike the invoice path, generic
// failures keep a short cause suffix (network vs server vs payload) for
// the audit screen; errors.Is against ErrFetchFailed still holds.
func (c *Client) ListAudit(ctx context.Context, accessToken string) ([]core.AuditEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/audit/", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	c.authorize(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: network unreachable: %v", core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		return nil, core.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: server returned status %d", core.ErrFetchFailed, resp.StatusCode)
	}

	var entries []core.AuditEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", core.ErrFetchFailed, err)
	}
	return entries, nil
}

// CreatePayment submits a payment entry. The caller-supplied idempotency
// key travels in a header so a retried submit lands on the same record.
func (c *Client) CreatePayment(ctx context.Context, accessToken string, input core.PaymentInput) (*core.Payment, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, core.ErrFetchFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/", bytes.NewReader(body))
	if err != nil {
		return nil, core.ErrFetchFailed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", input.IdempotencyKey)
	c.authorize(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.ErrFetchFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, core.ErrUnauthorized
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		io.Copy(io.Discard, resp.Body)
		return nil, core.ErrFetchFailed
	}

	var payment core.Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, core.ErrFetchFailed
	}
	return &payment, nil
}

// getJSON runs an authenticated GET with the collapsed error taxonomy:
// 401/403 distinct, everything else generic.
func (c *Client) getJSON(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return core.ErrFetchFailed
	}
	c.authorize(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return core.ErrFetchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		return core.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return core.ErrFetchFailed
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.ErrFetchFailed
	}
	return nil
}

func (c *Client) authorize(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
}
