package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcv42/blog-backend/database"
	"github.com/marcv42/blog-backend/database/mock"
	"github.com/marcv42/blog-backend/identity"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testBackendPassword = "backend-secret"
	testFrontendURL     = "http://localhost:3000/blog"
)

type testEnv struct {
	router   *chi.Mux
	sessions *identity.SessionManager
	blogs    *mock.BlogEntryRepository
	tags     *mock.TagRepository
}

func newTestEnv(t *testing.T, provider identityProvider, existingTags ...string) testEnv {
	t.Helper()

	sessions, err := identity.NewSessionManager("test-session-secret", "", time.Hour)
	require.NoError(t, err)

	blogs := mock.NewBlogEntryRepository()
	tags := mock.NewTagRepository(existingTags...)

	opts := []func(*router){
		withConfig(map[string]string{
			"BACKEND_PASSWORD": testBackendPassword,
			"FRONTEND_URL":     testFrontendURL,
		}),
		withStartupTime(time.Now()),
		withSessions(sessions),
	}
	if provider != nil {
		opts = append(opts, withIdentityProvider(provider))
	}

	return testEnv{
		router:   newRouter(database.NewFromStores(blogs, tags), opts...),
		sessions: sessions,
		blogs:    blogs,
		tags:     tags,
	}
}

func (e testEnv) sessionFor(t *testing.T, attrs map[string]any) string {
	t.Helper()
	token, err := e.sessions.Issue(identity.NewOAuth2User(attrs, identity.LoginAttribute))
	require.NoError(t, err)
	return token
}

func (e testEnv) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type fakeProvider struct {
	user        identity.OAuth2User
	exchangeErr error
	gotCode     string
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://github.example/login/oauth/authorize?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	p.gotCode = code
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &oauth2.Token{AccessToken: "gho_test"}, nil
}

func (p *fakeProvider) FetchUser(ctx context.Context, token *oauth2.Token) (identity.OAuth2User, error) {
	if token.AccessToken != "gho_test" {
		return identity.OAuth2User{}, errors.New("unexpected token")
	}
	return p.user, nil
}
