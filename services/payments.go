package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/okabrera/medbill/core"
)

// PaymentService submits payment entries. Every submission carries a
// client-generated idempotency key; a caller retrying a settled failure
// must reuse the key via SubmitWithKey so the service lands the retry on
// the same record.
type PaymentService struct {
	api     core.BillingAPI
	session *core.SessionManager
}

func NewPaymentService(api core.BillingAPI, session *core.SessionManager) *PaymentService {
	return &PaymentService{api: api, session: session}
}

// Submit sends a new payment with a fresh idempotency key and returns the
// key alongside the result so the caller can retry with it.
func (s *PaymentService) Submit(ctx context.Context, invoiceID string, amountCents int64, method string) (*core.Payment, string, error) {
	key := uuid.NewString()
	payment, err := s.SubmitWithKey(ctx, core.PaymentInput{
		InvoiceID:      invoiceID,
		AmountCents:    amountCents,
		Method:         method,
		IdempotencyKey: key,
	})
	return payment, key, err
}

// SubmitWithKey sends a payment under a caller-held idempotency key.
func (s *PaymentService) SubmitWithKey(ctx context.Context, input core.PaymentInput) (*core.Payment, error) {
	token, ok := s.session.AccessToken()
	if !ok {
		return nil, core.ErrNotAuthenticated
	}

	payment, err := s.api.CreatePayment(ctx, token, input)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			s.session.Invalidate(ctx)
		}
		return nil, err
	}
	return payment, nil
}
