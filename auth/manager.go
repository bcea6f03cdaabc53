package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
)

// Credential lifecycle errors. Both surface to the user as a
// "please authenticate again" style reply, never as a crash.
var (
	// ErrUnauthenticated means no usable credential exists (absent, or
	// expired with no refresh token). The user must log in again.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrRefreshFailed means the provider rejected the refresh attempt or
	// the token endpoint was unreachable. Not retried silently.
	ErrRefreshFailed = errors.New("auth: token refresh failed")
)

// Manager validates and refreshes credentials.
type Manager struct {
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a credential lifecycle manager.
func NewManager() *Manager {
	return &Manager{
		logger: slog.Default(),
		now:    time.Now,
	}
}

// WithLogger sets the logger.
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithClock overrides the time source. Intended for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// EnsureValid checks the credential and refreshes it if needed.
//
// Returns true when the credential is usable after the call. On refresh the
// credential's AccessToken and Expiry (and RefreshToken, when rotated) are
// mutated in place. Exactly one refresh attempt is made per call; a failed
// refresh returns ErrRefreshFailed and leaves the token fields untouched.
func (m *Manager) EnsureValid(ctx context.Context, cred *Credential) (bool, error) {
	if cred == nil || cred.AccessToken == "" && cred.RefreshToken == "" {
		return false, ErrUnauthenticated
	}

	if !cred.Expired(m.now()) {
		return true, nil
	}

	if cred.RefreshToken == "" {
		m.logger.Warn("credential expired with no refresh token")
		return false, ErrUnauthenticated
	}

	m.logger.Info("access token expired, refreshing", "endpoint", cred.TokenEndpoint)

	conf := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cred.TokenEndpoint},
		Scopes:       cred.Scopes,
	}

	refreshed, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		m.logger.Error("token refresh failed", "error", err)
		return false, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	cred.AccessToken = refreshed.AccessToken
	cred.Expiry = refreshed.Expiry
	if refreshed.RefreshToken != "" {
		cred.RefreshToken = refreshed.RefreshToken
	}

	m.logger.Info("access token refreshed", "expiry", cred.Expiry)
	return true, nil
}
