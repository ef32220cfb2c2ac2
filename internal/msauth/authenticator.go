package msauth

import (
	"net/http"
)

// Authenticator attaches the account's current access token to outbound
// Graph requests as an Authorization: Bearer header.
//
// When no token is available the header is simply omitted and the request
// goes out unauthenticated; the downstream call then fails with 401. The
// authenticator never blocks a request waiting for authorization.
type Authenticator struct {
	supplier *Supplier
}

// NewAuthenticator creates an Authenticator backed by the given Supplier.
func NewAuthenticator(supplier *Supplier) *Authenticator {
	return &Authenticator{supplier: supplier}
}

// Authenticate adds the bearer token to the request, if one is available.
func (a *Authenticator) Authenticate(req *http.Request) {
	token, ok := a.supplier.CurrentAccessToken(req.Context())
	if !ok {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
