// Package auth manages delegated-authority credentials for tools that act
// on the user's behalf.
//
// A Credential is bound to a single session and handed to the tool registry
// for the duration of one turn only. The OAuth browser/redirect flow that
// produces it lives outside this package; only validation and refresh happen
// here.
package auth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Credential holds a delegated-authority token for one user session.
// Refresh mutates AccessToken and Expiry in place.
type Credential struct {
	AccessToken   string
	RefreshToken  string
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
	Expiry        time.Time
	Scopes        []string
}

// expiryLeeway treats tokens about to expire as already expired, so a tool
// never starts a call with a token that dies mid-flight.
const expiryLeeway = 30 * time.Second

// Expired reports whether the access token is past (or within leeway of)
// its expiry. A zero Expiry means the token does not expire.
func (c *Credential) Expired(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Before(c.Expiry.Add(-expiryLeeway))
}

// Token converts the credential to an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
		TokenType:    "Bearer",
	}
}

// HTTPClient returns an HTTP client that authenticates requests with the
// credential's current access token. The caller must have run
// Manager.EnsureValid first; this client does not refresh on its own.
func (c *Credential) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(c.Token()))
}
