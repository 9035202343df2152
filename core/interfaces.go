package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORT (durable key-value store)
// ============================================

// Well-known store keys. The session keys are always written and removed
// together; the cache key belongs to the invoice snapshot alone - any
// additional cached collection must use its own key.
const (
	KeyTokens       = "tokens"
	KeyUser         = "user"
	KeyInvoiceCache = "invoice_cache"
)

// KeyValueStore is the durable store the session manager and snapshot cache
// persist into. Implementations must return ErrKeyNotFound for absent keys.
// All operations are best-effort from the caller's perspective: failures are
// logged and substituted with empty results, never surfaced as hard errors.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ============================================
// REMOTE SERVICE PORTS
// ============================================

// AuthAPI is the slice of the remote contract the session manager consumes.
type AuthAPI interface {
	// Login exchanges credentials for a token pair. Any failure is
	// ErrLoginFailed.
	Login(ctx context.Context, username, password string) (*TokenPair, error)

	// Me fetches the profile behind an access token. 401/403 is
	// ErrUnauthorized; other failures are ErrFetchFailed.
	Me(ctx context.Context, accessToken string) (*User, error)
}

// BillingAPI is consumed by the dashboard, audit, and payment services.
// All methods signal 401/403 as ErrUnauthorized, distinctly from any
// other failure.
type BillingAPI interface {
	ListInvoices(ctx context.Context, accessToken string) ([]Invoice, error)
	ListAudit(ctx context.Context, accessToken string) ([]AuditEntry, error)
	CreatePayment(ctx context.Context, accessToken string, input PaymentInput) (*Payment, error)
}

// ============================================
// CACHE PORT
// ============================================

// SnapshotCache is a time-boxed snapshot of the last successful record
// fetch. Read reports ErrCacheNotFound for an absent, expired, or unreadable
// entry - a storage failure is indistinguishable from a miss.
type SnapshotCache interface {
	Read(ctx context.Context) ([]Invoice, time.Time, error)
	Write(ctx context.Context, records []Invoice) error
	Drop(ctx context.Context) error
}
