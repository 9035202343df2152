package core

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// State is the session lifecycle state. The machine cycles between
// Unauthenticated and Authenticated for the life of the process; the two
// transient states cover an in-flight login and the optimistic restore
// window at startup.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
	StateRestoring
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRestoring:
		return "restoring"
	default:
		return "unknown"
	}
}

// SessionManager is the single source of truth for who is logged in, across
// the running process and across restarts. All mutation funnels through
// Login, Logout, Restore, and Invalidate; callers only ever read value
// copies of the identity and credentials.
//
// The manager does not serialize Login/Logout/Restore against each other -
// the flows that trigger them are mutually exclusive at the call site
// (restore runs once at startup, login is gated on the loading flag). The
// internal mutex only keeps individual reads and writes coherent.
type SessionManager struct {
	api   AuthAPI
	store KeyValueStore

	mu     sync.RWMutex
	state  State
	user   *User
	tokens *TokenPair
}

func NewSessionManager(api AuthAPI, store KeyValueStore) *SessionManager {
	return &SessionManager{
		api:   api,
		store: store,
		state: StateUnauthenticated,
	}
}

// State returns the current lifecycle state.
func (sm *SessionManager) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.state
}

// IsAuthenticated is always derived from the presence of both identity and
// credentials; it is never stored and cannot drift from its inputs. It holds
// during the Restoring window, which is exactly the optimistic
// provisionally-authenticated state.
func (sm *SessionManager) IsAuthenticated() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.user != nil && sm.tokens != nil
}

// Loading reports whether a login or restore is in flight. Callers use it
// to gate reentrant login attempts.
func (sm *SessionManager) Loading() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.state == StateAuthenticating || sm.state == StateRestoring
}

// CurrentUser returns a copy of the authenticated identity.
func (sm *SessionManager) CurrentUser() (User, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.user == nil {
		return User{}, false
	}
	return *sm.user, true
}

// Tokens returns a copy of the credential pair.
func (sm *SessionManager) Tokens() (TokenPair, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.tokens == nil {
		return TokenPair{}, false
	}
	return *sm.tokens, true
}

// AccessToken returns the bearer credential for authenticated requests.
func (sm *SessionManager) AccessToken() (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.tokens == nil {
		return "", false
	}
	return sm.tokens.AccessToken, true
}

// Login authenticates against the remote service and installs the session.
//
// No client-side validation is applied to identifier or secret; the service
// owns validation. On success the token pair and the profile behind it are
// installed atomically and persisted best-effort. On any failure the state
// is exactly as before the call and the caller sees only ErrLoginFailed.
func (sm *SessionManager) Login(ctx context.Context, identifier, secret string) error {
	sm.mu.Lock()
	sm.state = StateAuthenticating
	sm.user = nil
	sm.tokens = nil
	sm.mu.Unlock()

	pair, err := sm.api.Login(ctx, identifier, secret)
	if err != nil {
		log.Printf("medbill: login rejected: %v", err)
		sm.clearMemory()
		return ErrLoginFailed
	}

	user, err := sm.api.Me(ctx, pair.AccessToken)
	if err != nil {
		log.Printf("medbill: profile fetch after login failed: %v", err)
		sm.clearMemory()
		return ErrLoginFailed
	}

	sm.mu.Lock()
	sm.user = user
	sm.tokens = pair
	sm.state = StateAuthenticated
	sm.mu.Unlock()

	sm.persist(ctx, user, pair)
	return nil
}

// Logout unconditionally clears the session. Store deletion is best-effort;
// from the caller's point of view logout always succeeds, and no remote
// call is made.
func (sm *SessionManager) Logout(ctx context.Context) {
	sm.clearMemory()
	sm.clearStore(ctx)
}

// Invalidate is the credential-expiry path: a caller that saw 401/403 on an
// authenticated operation routes it here. Behavior is a full local clear -
// no refresh is ever attempted.
func (sm *SessionManager) Invalidate(ctx context.Context) {
	sm.clearMemory()
	sm.clearStore(ctx)
}

// Restore rebuilds the session from the durable store, once at process
// start. With both keys present it optimistically installs the stored
// values (the Restoring state, already authenticated in the derived sense)
// and revalidates by re-fetching the profile; the mandatory profile fetch
// doubles as the token check, saving an explicit validation round trip.
// Any revalidation failure clears memory and store. The return value
// reports whether the process ended up authenticated.
func (sm *SessionManager) Restore(ctx context.Context) bool {
	tokens, user, ok := sm.readStored(ctx)
	if !ok {
		sm.mu.Lock()
		sm.state = StateUnauthenticated
		sm.mu.Unlock()
		return false
	}

	sm.mu.Lock()
	sm.user = user
	sm.tokens = tokens
	sm.state = StateRestoring
	sm.mu.Unlock()

	fresh, err := sm.api.Me(ctx, tokens.AccessToken)
	if err != nil {
		log.Printf("medbill: session revalidation failed: %v", err)
		sm.clearMemory()
		sm.clearStore(ctx)
		return false
	}

	sm.mu.Lock()
	sm.user = fresh
	sm.state = StateAuthenticated
	sm.mu.Unlock()

	sm.persist(ctx, fresh, tokens)
	return true
}

// readStored loads both session keys. A missing or unreadable key means the
// pair is treated as absent; an identity without credentials is never
// restored.
func (sm *SessionManager) readStored(ctx context.Context) (*TokenPair, *User, bool) {
	rawTokens, err := sm.store.Get(ctx, KeyTokens)
	if err != nil {
		return nil, nil, false
	}
	rawUser, err := sm.store.Get(ctx, KeyUser)
	if err != nil {
		return nil, nil, false
	}

	var tokens TokenPair
	var user User
	if err := json.Unmarshal(rawTokens, &tokens); err != nil {
		log.Printf("medbill: stored tokens unreadable: %v", err)
		sm.clearStore(ctx)
		return nil, nil, false
	}
	if err := json.Unmarshal(rawUser, &user); err != nil {
		log.Printf("medbill: stored user unreadable: %v", err)
		sm.clearStore(ctx)
		return nil, nil, false
	}
	if tokens.AccessToken == "" {
		sm.clearStore(ctx)
		return nil, nil, false
	}

	return &tokens, &user, true
}

func (sm *SessionManager) persist(ctx context.Context, user *User, tokens *TokenPair) {
	rawTokens, err := json.Marshal(tokens)
	if err != nil {
		log.Printf("medbill: marshal tokens: %v", err)
		return
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		log.Printf("medbill: marshal user: %v", err)
		return
	}
	if err := sm.store.Set(ctx, KeyTokens, rawTokens); err != nil {
		log.Printf("medbill: persist tokens: %v", err)
		return
	}
	if err := sm.store.Set(ctx, KeyUser, rawUser); err != nil {
		log.Printf("medbill: persist user: %v", err)
	}
}

func (sm *SessionManager) clearMemory() {
	sm.mu.Lock()
	sm.user = nil
	sm.tokens = nil
	sm.state = StateUnauthenticated
	sm.mu.Unlock()
}

func (sm *SessionManager) clearStore(ctx context.Context) {
	if err := sm.store.Delete(ctx, KeyTokens); err != nil {
		log.Printf("medbill: remove stored tokens: %v", err)
	}
	if err := sm.store.Delete(ctx, KeyUser); err != nil {
		log.Printf("medbill: remove stored user: %v", err)
	}
}
