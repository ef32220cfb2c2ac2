// Package bridge implements the account device: one authorized Microsoft
// identity with its OAuth2 client configuration, token store and a cached
// view of the user's task lists.
package bridge

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/mstodo-bridge/internal/framework"
	"github.com/custodia-labs/mstodo-bridge/internal/graph"
	"github.com/custodia-labs/mstodo-bridge/internal/logger"
	"github.com/custodia-labs/mstodo-bridge/internal/metrics"
	"github.com/custodia-labs/mstodo-bridge/internal/msauth"
)

// Properties persisted on the account thing after authorization.
const (
	PropertyUser  = "user"
	PropertyEmail = "email"
)

// ChannelAccessToken exposes the current access token as a channel.
const ChannelAccessToken = "accessToken"

// ChannelTaskLists is the account's list-selector channel. Its option set
// is the user's current task lists.
const ChannelTaskLists = "todoTaskLists"

// authorizeTimeout bounds the exchange plus identity fetch.
const authorizeTimeout = 30 * time.Second

// DefaultCacheTTL is how long the task-list collection is served from
// cache before a fresh Graph fetch.
const DefaultCacheTTL = 30 * time.Second

// Config holds the account configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Tenant       string
	Cloud        msauth.Cloud
	Scopes       []string
	CacheTTL     time.Duration

	// AuthEndpoint overrides the login endpoint derived from Cloud and
	// Tenant. Tests point it at a fake server.
	AuthEndpoint *oauth2.Endpoint
}

// Account binds a thing, an OAuth2 supplier and a Graph client into the
// authorizable account the coordinator and the web UI operate on. Its
// correlation key is the thing id.
type Account struct {
	thing    framework.Thing
	supplier *msauth.Supplier
	client   *graph.Client

	listsCache *ExpiringCache[[]graph.TaskList]

	mu    sync.Mutex
	name  string
	email string
}

var _ msauth.Account = (*Account)(nil)

// NewAccount creates an Account for the given thing and configuration.
// Extra graph.Option values are used by tests to point the client at a
// fake server.
func NewAccount(thing framework.Thing, cfg Config, graphOpts ...graph.Option) *Account {
	endpoint := msauth.Endpoint(cfg.Cloud, cfg.Tenant)
	if cfg.AuthEndpoint != nil {
		endpoint = *cfg.AuthEndpoint
	}
	store := msauth.NewStore()
	supplier := msauth.NewSupplier(cfg.ClientID, cfg.ClientSecret, cfg.Scopes, endpoint, store)
	client := graph.NewClient(msauth.NewAuthenticator(supplier), graphOpts...)

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	a := &Account{
		thing:    thing,
		supplier: supplier,
		client:   client,
	}
	a.listsCache = NewExpiringCache(ttl, func() ([]graph.TaskList, error) {
		return client.TaskLists(context.Background())
	})
	return a
}

// Thing returns the account thing.
func (a *Account) Thing() framework.Thing { return a.thing }

// Graph returns the account's Graph client, used by task-list handlers
// fetching tasks under this account's identity.
func (a *Account) Graph() *graph.Client { return a.client }

// CorrelationKey returns the opaque key used as the OAuth state value.
func (a *Account) CorrelationKey() string { return a.thing.ID() }

// EqualsCorrelationKey reports whether the given state identifies this
// account. Exact, case-sensitive comparison.
func (a *Account) EqualsCorrelationKey(key string) bool {
	return a.thing.ID() == key
}

// IsAuthorized reports whether both access and refresh token are present.
func (a *Account) IsAuthorized() bool {
	return a.supplier.Store().Authorized()
}

// FormatAuthorizationURL builds the login link with this account's
// correlation key as the state parameter.
func (a *Account) FormatAuthorizationURL(redirectURI string) string {
	return a.supplier.AuthorizationURL(redirectURI, a.CorrelationKey())
}

// Name returns the authorized user's display name, or empty.
func (a *Account) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name
}

// Email returns the authorized user's email, or empty.
func (a *Account) Email() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.email
}

// Authorize exchanges the authorization code for a token pair, then
// fetches the user's identity and persists it as thing properties. The
// redirect URL must be exactly the one the authorization link was built
// with. On failure the thing goes offline with a configuration error and
// an ExchangeError is returned; authorization codes are single-use, so no
// retry happens here.
func (a *Account) Authorize(redirectURL, code string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), authorizeTimeout)
	defer cancel()

	logger.Debugf("account %s: exchanging authorization code", a.thing.ID())
	pair, err := a.supplier.Exchange(ctx, code, redirectURL)
	if err != nil {
		return "", a.authFailure(err)
	}
	a.publishAccessToken(pair.AccessToken)

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return "", a.authFailure(err)
	}

	a.mu.Lock()
	a.name = user.DisplayName
	a.email = user.Email()
	a.mu.Unlock()

	a.thing.UpdateProperties(map[string]string{
		PropertyUser:  user.DisplayName,
		PropertyEmail: user.Email(),
	})
	a.thing.UpdateStatus(framework.StatusOnline, framework.DetailNone, "")
	a.listsCache.Invalidate()
	metrics.RecordAuthExchange(true)

	logger.Infof("account %s: authorized for user %s", a.thing.ID(), user.DisplayName)
	return user.DisplayName, nil
}

func (a *Account) authFailure(err error) error {
	a.thing.UpdateStatus(framework.StatusOffline, framework.DetailConfigurationError, err.Error())
	metrics.RecordAuthExchange(false)
	return &msauth.ExchangeError{AccountID: a.thing.ID(), Err: err}
}

func (a *Account) publishAccessToken(token string) {
	if a.thing.IsLinked(ChannelAccessToken) {
		a.thing.UpdateState(ChannelAccessToken, framework.StringState(token))
	}
}

// RestoreTokens seeds the token store from previously persisted
// credentials, for example after a restart. The pair replaces any current
// one wholesale.
func (a *Account) RestoreTokens(accessToken, refreshToken string, expiry time.Time) {
	a.supplier.Store().Replace(&msauth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       expiry,
	})
}

// TaskLists returns the user's task lists through the expiring cache.
func (a *Account) TaskLists() ([]graph.TaskList, error) {
	return a.listsCache.Value()
}
