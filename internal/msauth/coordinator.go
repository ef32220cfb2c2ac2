package msauth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/mstodo-bridge/internal/logger"
)

// ErrUnknownAccount is returned when an authorization callback carries a
// state that matches no registered account, typically because the account
// was removed between generating the authorization link and the user
// completing the login.
var ErrUnknownAccount = errors.New("msauth: state does not match any registered account")

// ExchangeError wraps a failed code-for-token exchange with the account it
// belongs to.
type ExchangeError struct {
	AccountID string
	Err       error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("authorization exchange for account %s: %v", e.AccountID, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// Account is the capability an authorizable account exposes to the
// Coordinator and to the authorization web UI.
type Account interface {
	// Authorize completes the code-for-token exchange using redirectURL
	// as the exact redirect URI, then fetches and persists the account's
	// identity. Returns the authorized user's display name.
	Authorize(redirectURL, code string) (string, error)

	// IsAuthorized reports whether the account holds a complete token
	// pair.
	IsAuthorized() bool

	// FormatAuthorizationURL builds the login link for this account.
	FormatAuthorizationURL(redirectURI string) string

	// EqualsCorrelationKey reports whether the given OAuth state value
	// identifies this account.
	EqualsCorrelationKey(key string) bool

	// Name returns the authorized user's display name, or empty.
	Name() string

	// Email returns the authorized user's email, or empty.
	Email() string
}

// Coordinator correlates inbound authorization callbacks with registered
// accounts. Registration and removal follow the account's device
// lifecycle and may race with an inbound callback, so the registry is
// lock-protected.
type Coordinator struct {
	mu       sync.Mutex
	accounts []Account
}

// NewCoordinator creates an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Register adds an account. Registering the same account twice is a no-op.
func (c *Coordinator) Register(account Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.accounts {
		if a == account {
			return
		}
	}
	c.accounts = append(c.accounts, account)
}

// Unregister removes an account. No-op when absent.
func (c *Coordinator) Unregister(account Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.accounts {
		if a == account {
			c.accounts = append(c.accounts[:i], c.accounts[i+1:]...)
			return
		}
	}
}

// Accounts returns a snapshot of the registered accounts.
func (c *Coordinator) Accounts() []Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Resolve finds the account whose correlation key matches the given state.
func (c *Coordinator) Resolve(state string) (Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.accounts {
		if a.EqualsCorrelationKey(state) {
			return a, true
		}
	}
	return nil, false
}

// CompleteAuthorization resolves the account behind an inbound (state,
// code) callback and delegates the code-for-token exchange to it. Returns
// the authorized user's display name.
func (c *Coordinator) CompleteAuthorization(state, code, redirectURL string) (string, error) {
	account, ok := c.Resolve(state)
	if !ok {
		logger.Debugf("authorization callback with state %q matched no registered account", state)
		return "", ErrUnknownAccount
	}
	return account.Authorize(redirectURL, code)
}
