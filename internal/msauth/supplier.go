package msauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/mstodo-bridge/internal/logger"
)

// Supplier couples an OAuth2 client configuration with a token Store. It
// performs the code-for-token exchange and hands out access tokens,
// silently renewing them through the refresh token when they expire.
type Supplier struct {
	cfg   oauth2.Config
	store *Store
}

// NewSupplier creates a Supplier for the given client credentials. Empty
// scopes select DefaultScopes.
func NewSupplier(clientID, clientSecret string, scopes []string, endpoint oauth2.Endpoint, store *Store) *Supplier {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	return &Supplier{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		store: store,
	}
}

// Store returns the underlying token store.
func (s *Supplier) Store() *Store {
	return s.store
}

// Scopes returns the configured scope list.
func (s *Supplier) Scopes() []string {
	return s.cfg.Scopes
}

// AuthorizationURL builds the provider's authorization endpoint URL with
// the client id, the space-joined scopes, the exact redirect URI and the
// account's correlation key as the state parameter. Pure; no side effects.
func (s *Supplier) AuthorizationURL(redirectURI, state string) string {
	cfg := s.cfg
	cfg.RedirectURL = redirectURI
	// Microsoft-specific: response_mode=query for easier code extraction.
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query"))
}

// Exchange trades an authorization code for a token pair and stores it.
// The redirect URI must match the one used in the authorization link, per
// OAuth2 rules.
func (s *Supplier) Exchange(ctx context.Context, code, redirectURI string) (*TokenPair, error) {
	cfg := s.cfg
	cfg.RedirectURL = redirectURI
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	pair := pairFromToken(tok, "")
	s.store.Replace(pair)
	return pair, nil
}

// CurrentAccessToken returns the latest usable access token. An expired
// token is renewed through the refresh token; the rotated pair replaces
// the stored one. Returns false when no token can be produced.
func (s *Supplier) CurrentAccessToken(ctx context.Context) (string, bool) {
	pair := s.store.Current()
	if pair == nil {
		return "", false
	}
	if pair.Usable() {
		return pair.AccessToken, true
	}
	if pair.RefreshToken == "" {
		return "", false
	}

	src := s.cfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Expiry:       pair.Expiry,
	})
	tok, err := src.Token()
	if err != nil {
		// A rejected refresh token is dead; drop the pair so the account
		// reports unauthorized and the user can re-authorize. Transport
		// failures keep the pair for the next attempt.
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			logger.Warnf("token refresh rejected by provider, re-authorization required: %v", err)
			s.store.Clear()
		} else {
			logger.Debugf("silent token refresh failed: %v", err)
		}
		return "", false
	}

	renewed := pairFromToken(tok, pair.RefreshToken)
	s.store.Replace(renewed)
	return renewed.AccessToken, true
}
