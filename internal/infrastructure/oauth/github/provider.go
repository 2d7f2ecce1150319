// Package github implements the GitHub identity provider used by the login flow.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/cse341/records-api/internal/core/domain"
)

const defaultAPIBase = "https://api.github.com"

// Config holds the OAuth application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Provider implements ports.IdentityProvider against GitHub.
type Provider struct {
	oauth   *oauth2.Config
	apiBase string
	timeout time.Duration
}

func NewProvider(cfg Config) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBase: defaultAPIBase,
		timeout: 10 * time.Second,
	}
}

// AuthCodeURL returns the GitHub authorization URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades code for an access token and loads the user's profile.
func (p *Provider) Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchange code: %w", err)
	}
	client := p.oauth.Client(ctx, tok)

	var u githubUser
	if err := p.getJSON(ctx, client, "/user", &u); err != nil {
		return nil, err
	}

	profile := &domain.ProviderProfile{
		ID:        strconv.FormatInt(u.ID, 10),
		Login:     u.Login,
		Name:      strings.TrimSpace(u.Name),
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}

	// Private emails are only listed by /user/emails.
	if profile.Email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, client, "/user/emails", &emails); err == nil {
			profile.Email = primaryEmail(emails)
		}
	}

	return profile, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *Provider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("github: build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github: get %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode %s: %w", path, err)
	}
	return nil
}

func primaryEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
