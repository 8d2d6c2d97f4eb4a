package api

import (
	"net/http"
	"time"
)

const (
	sessionCookieName = "BLOG_SESSION"
	stateCookieName   = "BLOG_OAUTH_STATE"
	stateCookieTTL    = 10 * time.Minute
)

// cookieJar writes the session and OAuth state cookies with consistent attributes.
type cookieJar struct {
	secure     bool
	sessionTTL time.Duration
}

func (c cookieJar) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(sessionCookieName, token, c.sessionTTL))
}

func (c cookieJar) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(sessionCookieName, "", -1))
}

func (c cookieJar) setState(w http.ResponseWriter, state string) {
	http.SetCookie(w, c.cookie(stateCookieName, state, stateCookieTTL))
}

func (c cookieJar) clearState(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(stateCookieName, "", -1))
}

// cookie expires immediately when maxAge is negative.
func (c cookieJar) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	return cookie
}
