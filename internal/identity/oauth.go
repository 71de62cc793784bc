package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/favatis/favatis-backend/pkg/config"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
)

// OAuthSessionData is the profile returned by the hosted Google OAuth broker
// after the frontend completes the redirect flow.
type OAuthSessionData struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthExchanger resolves a broker session id into a verified profile.
type OAuthExchanger interface {
	FetchSessionData(ctx context.Context, sessionID string) (*OAuthSessionData, error)
}

// OAuthClient calls the broker's session-data endpoint over HTTP.
type OAuthClient struct {
	url    string
	client *http.Client
}

// NewOAuthClient builds the broker client from configuration.
func NewOAuthClient(cfg config.OAuthConfig) *OAuthClient {
	return &OAuthClient{
		url:    cfg.SessionDataURL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchSessionData exchanges the broker session id for the user's profile.
// The broker expects the id in the X-Session-ID header.
func (c *OAuthClient) FetchSessionData(ctx context.Context, sessionID string) (*OAuthSessionData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build oauth request")
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "oauth session exchange")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, fmt.Sprintf("oauth session rejected (%d)", resp.StatusCode))
	}

	var data OAuthSessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode oauth session data")
	}
	if data.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "oauth session missing email")
	}
	return &data, nil
}
