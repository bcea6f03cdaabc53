package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func tokenEndpoint(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST to token endpoint, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEnsureValidNotExpired(t *testing.T) {
	manager := NewManager()
	cred := &Credential{
		AccessToken: "token",
		Expiry:      time.Now().Add(time.Hour),
	}

	ok, err := manager.EnsureValid(context.Background(), cred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected valid credential")
	}
	if cred.AccessToken != "token" {
		t.Error("credential must not be mutated when still valid")
	}
}

func TestEnsureValidRefreshesExpired(t *testing.T) {
	server := tokenEndpoint(t, http.StatusOK,
		`{"access_token": "novo-token", "token_type": "Bearer", "expires_in": 3600}`)

	manager := NewManager()
	cred := &Credential{
		AccessToken:   "velho-token",
		RefreshToken:  "refresh",
		TokenEndpoint: server.URL,
		ClientID:      "client",
		Expiry:        time.Now().Add(-time.Hour),
	}

	ok, err := manager.EnsureValid(context.Background(), cred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected refreshed credential to be valid")
	}
	if cred.AccessToken != "novo-token" {
		t.Errorf("expected access token mutated to 'novo-token', got %q", cred.AccessToken)
	}
	if !cred.Expiry.After(time.Now()) {
		t.Error("expected expiry pushed into the future")
	}
}

func TestEnsureValidRefreshFailure(t *testing.T) {
	server := tokenEndpoint(t, http.StatusBadRequest, `{"error": "invalid_grant"}`)

	manager := NewManager()
	cred := &Credential{
		AccessToken:   "velho-token",
		RefreshToken:  "refresh",
		TokenEndpoint: server.URL,
		Expiry:        time.Now().Add(-time.Hour),
	}

	ok, err := manager.EnsureValid(context.Background(), cred)
	if ok {
		t.Error("expected invalid credential")
	}
	if !errors.Is(err, ErrRefreshFailed) {
		t.Errorf("expected ErrRefreshFailed, got %v", err)
	}
	if cred.AccessToken != "velho-token" {
		t.Error("failed refresh must leave the credential untouched")
	}
}

func TestEnsureValidExpiredWithoutRefreshToken(t *testing.T) {
	manager := NewManager()
	cred := &Credential{
		AccessToken: "velho-token",
		Expiry:      time.Now().Add(-time.Hour),
	}

	ok, err := manager.EnsureValid(context.Background(), cred)
	if ok {
		t.Error("expected invalid credential")
	}
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if cred.AccessToken != "velho-token" {
		t.Error("credential must not be mutated")
	}
}

func TestEnsureValidNilCredential(t *testing.T) {
	manager := NewManager()
	if _, err := manager.EnsureValid(context.Background(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for nil credential, got %v", err)
	}
}

func TestExpiredLeeway(t *testing.T) {
	now := time.Now()
	cred := &Credential{AccessToken: "t", Expiry: now.Add(10 * time.Second)}
	if !cred.Expired(now) {
		t.Error("token inside the leeway window should count as expired")
	}

	cred.Expiry = now.Add(time.Minute)
	if cred.Expired(now) {
		t.Error("token outside the leeway window should not count as expired")
	}

	cred.Expiry = time.Time{}
	if cred.Expired(now) {
		t.Error("zero expiry means the token never expires")
	}
}
