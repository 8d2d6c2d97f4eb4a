package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marcv42/blog-backend/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/users/me", "", testBackendPassword)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.sessionFor(t, map[string]any{"login": "octocat"})
	rec = env.do(http.MethodGet, "/api/users/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "octocat", decodeBody[UserResponse](t, rec).Login)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.sessionFor(t, map[string]any{"login": "octocat"})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "octocat", decodeBody[UserResponse](t, rec).Login)
}

func TestInvalidSessionCookieIsAnonymous(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerTokenRejections(t *testing.T) {
	env := newTestEnv(t, nil)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "octocat",
		"iss":   "blog-backend",
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
		"attrs": map[string]any{"login": "octocat"},
	})
	expiredToken, err := expired.SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	testCases := []struct {
		name      string
		header    string
		wantError string
	}{
		{name: "not a bearer", header: "Basic abc", wantError: "missing access token: Missing access token"},
		{name: "garbage token", header: "Bearer garbage", wantError: "invalid access token: Invalid access token"},
		{name: "expired session", header: "Bearer " + expiredToken, wantError: "token expired: Token has expired"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
			req.Header.Set("Authorization", testCase.header)
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, testCase.wantError, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/users/logout", "", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookie := findCookie(rec, sessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestGitHubLoginFlow(t *testing.T) {
	provider := &fakeProvider{
		user: identity.NewOAuth2User(map[string]any{"login": "octocat", "id": float64(1)}, identity.LoginAttribute),
	}
	env := newTestEnv(t, provider)

	rec := env.do(http.MethodGet, "/oauth2/authorization/github", "", "")
	require.Equal(t, http.StatusFound, rec.Code)

	stateCookie := findCookie(rec, stateCookieName)
	require.NotNil(t, stateCookie)
	require.NotEmpty(t, stateCookie.Value)
	assert.True(t, stateCookie.HttpOnly)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, stateCookie.Value, location.Query().Get("state"))

	callback := "/login/oauth2/code/github?code=abc&state=" + url.QueryEscape(stateCookie.Value)
	req := httptest.NewRequest(http.MethodGet, callback, nil)
	req.AddCookie(stateCookie)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, testFrontendURL, rec.Header().Get("Location"))
	assert.Equal(t, "abc", provider.gotCode)

	session := findCookie(rec, sessionCookieName)
	require.NotNil(t, session)
	user, err := env.sessions.Parse(session.Value)
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.GetName())
}

func TestGitHubCallbackFailures(t *testing.T) {
	t.Run("state mismatch", func(t *testing.T) {
		env := newTestEnv(t, &fakeProvider{})

		req := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/github?code=abc&state=one", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "two"})
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "state", decodeBody[ErrorResponse](t, rec).Field)
	})

	t.Run("exchange fails", func(t *testing.T) {
		env := newTestEnv(t, &fakeProvider{exchangeErr: errors.New("bad_verification_code")})

		req := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/github?code=abc&state=s", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s"})
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Nil(t, findCookie(rec, sessionCookieName))
	})

	t.Run("user without login", func(t *testing.T) {
		env := newTestEnv(t, &fakeProvider{
			user: identity.NewOAuth2User(map[string]any{"id": float64(7)}, identity.LoginAttribute),
		})

		req := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/github?code=abc&state=s", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s"})
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, findCookie(rec, sessionCookieName))
	})

	t.Run("login not configured", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := env.do(http.MethodGet, "/oauth2/authorization/github", "", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[HealthResponse](t, rec).Status)
}
