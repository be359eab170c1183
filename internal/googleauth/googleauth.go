// Package googleauth verifies Google ID tokens for federated sign-in.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "rupeeready/internal/errors"
)

// Claims are the identity fields extracted from a verified ID token.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates a Google ID token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Claims, error)
}

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// HTTPVerifier validates tokens against Google's tokeninfo endpoint.
type HTTPVerifier struct {
	clientID   string
	endpoint   string
	httpClient *http.Client
}

// NewHTTPVerifier creates a verifier that accepts only tokens issued to the
// given OAuth client ID.
func NewHTTPVerifier(clientID string) *HTTPVerifier {
	return &HTTPVerifier{
		clientID:   clientID,
		endpoint:   tokenInfoURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfo struct {
	Aud     string `json:"aud"`
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verify checks the token with Google and validates the audience.
func (v *HTTPVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	endpoint := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidIDToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrInvalidIDToken, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode))
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidIDToken, err)
	}
	if info.Aud != v.clientID {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidIDToken, "Token was not issued for this application")
	}

	return &Claims{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
