// Shared plumbing for Google API tools.

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sharkdev/cidinha/auth"
)

const (
	calendarAPIBase = "https://www.googleapis.com/calendar/v3"
	gmailAPIBase    = "https://gmail.googleapis.com/gmail/v1"
)

// hasCredential reports whether a usable delegated credential is present.
func hasCredential(cred *auth.Credential) bool {
	return cred != nil && cred.AccessToken != ""
}

// googleClient returns the HTTP client for authenticated Google calls.
// Tests inject their own client; production uses the credential's client.
func googleClient(ctx context.Context, cred *auth.Credential, override *http.Client) *http.Client {
	if override != nil {
		return override
	}
	return cred.HTTPClient(ctx)
}

// getJSON performs a GET and decodes the JSON response into out.
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postJSON performs a POST with a JSON body and decodes the JSON response
// into out when out is non-nil.
func postJSON(ctx context.Context, client *http.Client, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
