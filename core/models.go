package core

import "time"

// Role is the closed set of roles the billing service issues.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleBillingStaff Role = "billing_staff"
	RoleReceptionist Role = "receptionist"
)

// User represents the authenticated identity returned by the profile endpoint.
//
// A User is only meaningful together with a TokenPair - the SessionManager
// creates, persists, and clears the two as a unit.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the credential bundle issued at login.
//
// Immutable once issued; replaced wholesale on re-login, never patched.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// InvoiceStatus is open-ended on the wire; these are the values the
// aggregation layer assigns meaning to. Anything else still counts toward
// the total.
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPending InvoiceStatus = "pending"
)

// Invoice is one billing record as served by the invoices collection.
//
// AmountCents is in minor currency units and may be negative (refunds,
// credits). It is a pointer because the service can omit it; a record
// without an amount is excluded from aggregation rather than rejected.
type Invoice struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	PatientID   string        `json:"patient_id"`
	AmountCents *int64        `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	Currency    string        `json:"currency,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
	DueAt       *time.Time    `json:"due_date,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
}

// Metrics are the three derived aggregates over a record set, in minor
// units. They are recomputed from records on every change and never
// persisted on their own.
type Metrics struct {
	OutstandingCents int64 `json:"outstanding"`
	PaidCents        int64 `json:"paid"`
	TotalCents       int64 `json:"total"`
}

// FormattedMetrics are display-ready currency strings derived from Metrics.
type FormattedMetrics struct {
	Outstanding string `json:"outstanding"`
	Paid        string `json:"paid"`
	Total       string `json:"total"`
}

// AuditEntry is one row of the service audit log.
type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentInput is the body of a payment submission. IdempotencyKey is
// client-generated so a retried submit can never double-charge; it travels
// in a header, not the body.
type PaymentInput struct {
	InvoiceID      string `json:"invoice_id"`
	AmountCents    int64  `json:"amount"`
	Method         string `json:"method"`
	IdempotencyKey string `json:"-"`
}

// Payment is the service's record of a submitted payment.
type Payment struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	AmountCents int64     `json:"amount"`
	Method      string    `json:"method"`
	CreatedAt   time.Time `json:"created_at"`
}
