package core

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim out of an access token without verifying
// the signature. Display and logging only: the client never gates a request
// on it and never refreshes because of it - expiry is always detected
// server-side as a 401/403 and resolved by a full logout.
func TokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiresAt reports the current access token's exp claim, when present.
func (sm *SessionManager) ExpiresAt() (time.Time, bool) {
	token, ok := sm.AccessToken()
	if !ok {
		return time.Time{}, false
	}
	return TokenExpiry(token)
}
