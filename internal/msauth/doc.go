// Package msauth implements the OAuth2 authorization-code flow against the
// Microsoft identity platform and the token lifecycle for authorized
// accounts.
//
// Each account carries an opaque correlation key that is round-tripped
// through the provider's redirect as the OAuth "state" parameter; the
// Coordinator maps an inbound (state, code) callback back to the account it
// belongs to and completes the code-for-token exchange.
//
// Token pairs are immutable and replaced wholesale with an atomic swap, so
// concurrent poll cycles never observe a partially updated pair. Silent
// renewal rides on golang.org/x/oauth2's refresh-token TokenSource.
package msauth
