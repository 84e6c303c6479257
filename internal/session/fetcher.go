package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPFetcher builds a Fetcher over the session endpoint. token is called
// per request so callers can rotate credentials; it may return "" for a
// guest. client may be nil, in which case a short-timeout client is used.
func HTTPFetcher(baseURL string, token func() string, client *http.Client) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/api/auth/session"

	return func(ctx context.Context) (*Session, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		if t := token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("session endpoint returned %d", resp.StatusCode)
		}

		var payload struct {
			User *Session `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload.User, nil
	}
}
