// Package medbill is the client core for the clinic billing dashboard:
// session lifecycle, invoice metrics, snapshot caching, and payment
// submission over the billing REST service.
package medbill

import (
	"net/http"
	"time"

	"github.com/okabrera/medbill/core"
	"github.com/okabrera/medbill/rest"
	"github.com/okabrera/medbill/services"
)

// interfaces
type (
	KeyValueStore = core.KeyValueStore
	AuthAPI       = core.AuthAPI
	BillingAPI    = core.BillingAPI
	SnapshotCache = core.SnapshotCache
)

// structs
type (
	User       = core.User
	TokenPair  = core.TokenPair
	Invoice    = core.Invoice
	Metrics    = core.Metrics
	AuditEntry = core.AuditEntry
	Payment    = core.Payment

	SessionManager   = core.SessionManager
	DashboardService = services.DashboardService
	DashboardView    = services.DashboardView
	AuditService     = services.AuditService
	PaymentService   = services.PaymentService
)

// Constructors & helpers (convenience re-exports)
var (
	NewSessionManager = core.NewSessionManager
	NewInvoiceCache   = core.NewInvoiceCache
	ComputeMetrics    = core.ComputeMetrics
	FormatMetrics     = core.FormatMetrics
)

var (
	ErrLoginFailed      = core.ErrLoginFailed
	ErrUnauthorized     = core.ErrUnauthorized
	ErrFetchFailed      = core.ErrFetchFailed
	ErrNotAuthenticated = core.ErrNotAuthenticated
	ErrCacheNotFound    = core.ErrCacheNotFound
	ErrKeyNotFound      = core.ErrKeyNotFound
)

var (
	ErrBaseURLRequired = core.ErrBaseURLRequired
	ErrStoreRequired   = core.ErrStoreRequired
)

// Config wires a dashboard client together.
type Config struct {
	// BaseURL of the billing REST service. Required.
	BaseURL string

	// Store persists tokens, the user profile, and the invoice
	// snapshot. Required.
	Store core.KeyValueStore

	// HTTPClient overrides the default REST transport.
	HTTPClient *http.Client

	// CacheTTL bounds snapshot freshness. Zero means the 5 minute
	// default.
	CacheTTL time.Duration

	// CacheKey overrides the store key for the invoice snapshot.
	CacheKey string

	// CurrencySymbol used when formatting metrics. Empty means "$".
	CurrencySymbol string
}

// Client bundles the session manager and the services behind one handle.
type Client struct {
	Session   *core.SessionManager
	Dashboard *services.DashboardService
	Audit     *services.AuditService
	Payments  *services.PaymentService

	// API is the underlying REST client, exposed for callers that
	// need raw access.
	API *rest.Client
}

func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if config.Store == nil {
		return nil, ErrStoreRequired
	}

	symbol := config.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}

	api := rest.New(config.BaseURL, config.HTTPClient)
	session := core.NewSessionManager(api, config.Store)
	cache := core.NewInvoiceCache(config.Store, config.CacheKey, config.CacheTTL)

	return &Client{
		Session:   session,
		Dashboard: services.NewDashboardService(api, cache, session, symbol),
		Audit:     services.NewAuditService(api, session),
		Payments:  services.NewPaymentService(api, session),
		API:       api,
	}, nil
}
