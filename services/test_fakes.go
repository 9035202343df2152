package services

import (
	"context"
	"sync"

	"github.com/okabrera/medbill/core"
)

// FakeStore is a test-only fake implementing core.KeyValueStore. It keeps
// values in a map and exposes error fields for behavior injection.
type FakeStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{data: make(map[string][]byte)}
}

func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return v, nil
}

func (f *FakeStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *FakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.data, key)
	return nil
}

func (f *FakeStore) Has(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.data[key]
	return ok
}

func (f *FakeStore) SetGetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

// FakeAPI is a test-only fake implementing core.AuthAPI and
// core.BillingAPI with injectable results and call accounting.
type FakeAPI struct {
	mu sync.Mutex

	LoginRes *core.TokenPair
	LoginErr error

	MeRes *core.User
	MeErr error

	InvoicesRes []core.Invoice
	InvoicesErr error
	ListCalls   int

	AuditRes []core.AuditEntry
	AuditErr error

	PaymentRes  *core.Payment
	PaymentErr  error
	PaymentKeys []string
}

var (
	_ core.AuthAPI    = (*FakeAPI)(nil)
	_ core.BillingAPI = (*FakeAPI)(nil)
)

func (f *FakeAPI) Login(ctx context.Context, username, password string) (*core.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	pair := *f.LoginRes
	return &pair, nil
}

func (f *FakeAPI) Me(ctx context.Context, accessToken string) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	u := *f.MeRes
	return &u, nil
}

func (f *FakeAPI) ListInvoices(ctx context.Context, accessToken string) ([]core.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.InvoicesErr != nil {
		return nil, f.InvoicesErr
	}
	return f.InvoicesRes, nil
}

func (f *FakeAPI) ListAudit(ctx context.Context, accessToken string) ([]core.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AuditErr != nil {
		return nil, f.AuditErr
	}
	return f.AuditRes, nil
}

func (f *FakeAPI) CreatePayment(ctx context.Context, accessToken string, input core.PaymentInput) (*core.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PaymentKeys = append(f.PaymentKeys, input.IdempotencyKey)
	if f.PaymentErr != nil {
		return nil, f.PaymentErr
	}
	p := *f.PaymentRes
	p.InvoiceID = input.InvoiceID
	p.AmountCents = input.AmountCents
	return &p, nil
}
