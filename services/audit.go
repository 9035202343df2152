package services

import (
	"context"
	"errors"

	"github.com/okabrera/medbill/core"
)

// AuditService lists the service audit log. Entries are never cached - the
// invoice snapshot key belongs to invoices alone, and the audit screen
// tolerates an empty state.
type AuditService struct {
	api     core.BillingAPI
	session *core.SessionManager
}

func NewAuditService(api core.BillingAPI, session *core.SessionManager) *AuditService {
	return &AuditService{api: api, session: session}
}

// List fetches the audit entries under the current credential. A 401/403
// invalidates the session and surfaces distinctly; other failures keep the
// finer cause detail the REST layer attaches for this endpoint.
func (s *AuditService) List(ctx context.Context) ([]core.AuditEntry, error) {
	token, ok := s.session.AccessToken()
	if !ok {
		return nil, core.ErrNotAuthenticated
	}

	entries, err := s.api.ListAudit(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			s.session.Invalidate(ctx)
		}
		return nil, err
	}
	return entries, nil
}
