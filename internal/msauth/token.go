package msauth

import (
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
)

// expirySkew treats tokens about to expire as already expired so a request
// never leaves with a token that dies in flight.
const expirySkew = 30 * time.Second

// TokenPair is one issued access/refresh token pair. Pairs are immutable;
// a refresh or re-authorization produces a new pair, never mutates one.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Usable reports whether the access token can still authenticate a request.
func (p *TokenPair) Usable() bool {
	if p == nil || p.AccessToken == "" {
		return false
	}
	return p.Expiry.IsZero() || time.Now().Add(expirySkew).Before(p.Expiry)
}

// Complete reports whether both tokens are present. An account counts as
// authorized exactly when its current pair is complete.
func (p *TokenPair) Complete() bool {
	return p != nil && p.AccessToken != "" && p.RefreshToken != ""
}

// pairFromToken converts an oauth2 token. Microsoft does not always return
// a new refresh token on renewal; the previous one is carried over then.
func pairFromToken(tok *oauth2.Token, previousRefresh string) *TokenPair {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	return &TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		Expiry:       tok.Expiry,
	}
}

// Store holds the current TokenPair for one account. Replacement is an
// atomic pointer swap; readers always see a consistent pair.
type Store struct {
	current atomic.Pointer[TokenPair]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest pair, or nil before authorization.
func (s *Store) Current() *TokenPair {
	return s.current.Load()
}

// Replace swaps in a new pair wholesale.
func (s *Store) Replace(p *TokenPair) {
	s.current.Store(p)
}

// Clear drops the stored pair, returning the account to unauthorized.
func (s *Store) Clear() {
	s.current.Store(nil)
}

// Authorized reports whether a complete pair is stored.
func (s *Store) Authorized() bool {
	return s.Current().Complete()
}
