package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/sync/errgroup"
)

const defaultGitHubAPIURL = "https://api.github.com"

// GitHubClient runs the OAuth2 authorization-code flow against GitHub and loads the
// signed-in user's profile.
type GitHubClient struct {
	config     *oauth2.Config
	apiBaseURL string
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func NewGitHubClient(clientID, clientSecret, redirectURL string) (*GitHubClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("github oauth not configured: GITHUB_CLIENT_ID/SECRET are required")
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}

	return &GitHubClient{config: cfg, apiBaseURL: defaultGitHubAPIURL}, nil
}

func (c *GitHubClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (c *GitHubClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.config.Exchange(ctx, code)
}

// FetchUser loads /user and /user/emails concurrently. The emails call is best effort;
// it only fills in "email" when the public profile hides it.
func (c *GitHubClient) FetchUser(ctx context.Context, token *oauth2.Token) (OAuth2User, error) {
	httpClient := c.config.Client(ctx, token)

	var (
		profile map[string]any
		emails  []githubEmail
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, httpClient, "/user", &profile)
	})
	g.Go(func() error {
		if err := c.getJSON(gctx, httpClient, "/user/emails", &emails); err != nil {
			log.Debug().Err(err).Msg("GitHub emails unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return OAuth2User{}, err
	}
	if profile == nil {
		return OAuth2User{}, fmt.Errorf("github /user: empty profile")
	}

	if email, _ := profile["email"].(string); email == "" {
		for _, e := range emails {
			if e.Primary && e.Verified {
				profile["email"] = e.Email
				break
			}
		}
	}

	return NewOAuth2User(profile, LoginAttribute), nil
}

func (c *GitHubClient) getJSON(ctx context.Context, httpClient *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(c.apiBaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github %s: decode: %w", path, err)
	}
	return nil
}
