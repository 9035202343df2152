// Command mockapi is a development stand-in for the billing REST
// service. It speaks the same contract billdash consumes: token login,
// profile lookup, invoice and audit listings, and idempotent payment
// submission over seeded fixtures.
package main

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/okabrera/medbill/core"
)

// Demonstration purposes only; real deployments verify against a
// proper identity service.
var signingKey = []byte("mockapi-dev-signing-key")

type server struct {
	mu       sync.Mutex
	users    map[string]fixtureUser // by username
	invoices []core.Invoice
	audit    []core.AuditEntry
	payments map[string]*core.Payment // by idempotency key
}

type fixtureUser struct {
	password string
	profile  core.User
}

func main() {
	srv := newServer()

	app := fiber.New()
	app.Use(logger.New(logger.Config{
		Format:     "${time}|${status}|${latency}|${method}|${path}\n",
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Post("/auth/login", srv.handleLogin)
	app.Get("/auth/me", srv.requireAuth(srv.handleMe))
	app.Get("/invoices/", srv.requireAuth(srv.handleInvoices))
	app.Get("/audit/", srv.requireAuth(srv.handleAudit))
	app.Post("/payments/", srv.requireAuth(srv.handlePayment))

	log.Println("mockapi: listening on :8000")
	if err := app.Listen(":8000"); err != nil {
		log.Fatalf("app.Listen: %v", err)
	}
}

func newServer() *server {
	now := time.Now()
	due := now.AddDate(0, 0, 14)
	paidAt := now.AddDate(0, 0, -3)
	amount := func(v int64) *int64 { return &v }

	return &server{
		users: map[string]fixtureUser{
			"ana": {
				password: "secret",
				profile: core.User{
					ID: "u1", Email: "ana@clinic.test", Name: "Ana Maria",
					Role: core.RoleBillingStaff, CreatedAt: now.AddDate(-1, 0, 0),
				},
			},
			"admin": {
				password: "admin",
				profile: core.User{
					ID: "u2", Email: "admin@clinic.test", Name: "Site Admin",
					Role: core.RoleAdmin, CreatedAt: now.AddDate(-2, 0, 0),
				},
			},
		},
		invoices: []core.Invoice{
			{ID: "inv-001", Number: "2026-0001", PatientID: "p-10", AmountCents: amount(15000), Status: core.InvoiceStatusPaid, Currency: "USD", CreatedAt: &now, PaidAt: &paidAt},
			{ID: "inv-002", Number: "2026-0002", PatientID: "p-11", AmountCents: amount(8500), Status: core.InvoiceStatusPending, Currency: "USD", CreatedAt: &now, DueAt: &due},
			{ID: "inv-003", Number: "2026-0003", PatientID: "p-12", AmountCents: amount(23000), Status: core.InvoiceStatusUnpaid, Currency: "USD", CreatedAt: &now, DueAt: &due},
		},
		audit: []core.AuditEntry{
			{ID: "a1", Actor: "u2", Action: "invoice.created", Entity: "invoice/inv-003", CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "a2", Actor: "u1", Action: "invoice.paid", Entity: "invoice/inv-001", CreatedAt: now.Add(-1 * time.Hour)},
		},
		payments: make(map[string]*core.Payment),
	}
}

func (s *server) handleLogin(c fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	s.mu.Lock()
	user, ok := s.users[input.Username]
	s.mu.Unlock()
	if !ok || user.password != input.Password {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	access, err := s.issueToken(user.profile.ID, time.Hour)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "token issue failed"})
	}
	refresh, err := s.issueToken(user.profile.ID, 30*24*time.Hour)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "token issue failed"})
	}

	return c.JSON(core.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"})
}

func (s *server) issueToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

// requireAuth validates the bearer token and stashes the user ID in
// locals.
func (s *server) requireAuth(next fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		token, err := jwt.Parse(header[7:], func(t *jwt.Token) (any, error) {
			return signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals("userID", sub)
		return next(c)
	}
}

func (s *server) handleMe(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.profile.ID == userID {
			return c.JSON(u.profile)
		}
	}
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
}

func (s *server) handleInvoices(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.invoices)
}

func (s *server) handleAudit(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.audit)
}

func (s *server) handlePayment(c fiber.Ctx) error {
	var input struct {
		InvoiceID   string `json:"invoice_id"`
		AmountCents int64  `json:"amount"`
		Method      string `json:"method"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.InvoiceID == "" || input.AmountCents <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invoice_id and a positive amount are required"})
	}

	key := c.Get("Idempotency-Key")
	if key == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Idempotency-Key header is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replay of a settled submission returns the original record.
	if existing, ok := s.payments[key]; ok {
		return c.JSON(existing)
	}

	now := time.Now()
	payment := &core.Payment{
		ID:          uuid.NewString(),
		InvoiceID:   input.InvoiceID,
		AmountCents: input.AmountCents,
		Method:      input.Method,
		CreatedAt:   now,
	}
	s.payments[key] = payment

	for i := range s.invoices {
		if s.invoices[i].ID == input.InvoiceID {
			s.invoices[i].Status = core.InvoiceStatusPaid
			s.invoices[i].PaidAt = &now
			s.invoices[i].UpdatedAt = &now
		}
	}
	s.audit = append(s.audit, core.AuditEntry{
		ID:        uuid.NewString(),
		Actor:     c.Locals("userID").(string),
		Action:    "payment.created",
		Entity:    "invoice/" + input.InvoiceID,
		CreatedAt: now,
	})

	return c.Status(http.StatusCreated).JSON(payment)
}
