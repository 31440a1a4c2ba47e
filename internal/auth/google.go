package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the Google userinfo response the
// application needs.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleClient drives the Google OAuth authorization-code flow.
type GoogleClient struct {
	cfg         *oauth2.Config
	userinfoURL string
}

// NewGoogleClient configures the flow for the given client credentials
// and callback URL.
func NewGoogleClient(clientID, clientSecret, callbackURL string) *GoogleClient {
	return &GoogleClient{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

// AuthURL returns the provider URL to redirect the browser to. The
// state value round-trips through the provider back to the callback.
func (g *GoogleClient) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the
// user's profile.
func (g *GoogleClient) Exchange(ctx context.Context, code string) (GoogleProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	resp, err := g.cfg.Client(ctx, token).Get(g.userinfoURL)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleProfile{}, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return GoogleProfile{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return GoogleProfile{}, fmt.Errorf("userinfo response missing id or email")
	}
	return profile, nil
}
