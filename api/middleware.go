package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/marcv42/blog-backend/errs"
	"github.com/marcv42/blog-backend/identity"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const servicePrincipalName = "backend"

type authMiddleware struct {
	responder       Responder
	backendPassword string
	sessions        *identity.SessionManager
}

func newAuthMiddleware(backendPassword string, sessions *identity.SessionManager) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder:       NewResponder(logger),
		backendPassword: backendPassword,
		sessions:        sessions,
	}
}

// authenticate attaches an Authentication to the request context when the caller
// presents credentials. Anonymous requests pass through untouched.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				m.responder.WriteError(w, errs.NewMissingTokenError())
				return
			}

			auth, err := m.authenticateToken(token)
			if err != nil {
				m.responder.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxWithAuthentication(r.Context(), auth)))
			return
		}

		// A stale session cookie downgrades the request to anonymous.
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" && m.sessions != nil {
			user, err := m.sessions.Parse(cookie.Value)
			if err != nil {
				m.responder.logger.Debug().Err(err).Msg("ignoring invalid session cookie")
				next.ServeHTTP(w, r)
				return
			}
			auth := identity.NewAuthentication(user)
			next.ServeHTTP(w, r.WithContext(ctxWithAuthentication(r.Context(), auth)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m authMiddleware) authenticateToken(token string) (*identity.Authentication, error) {
	if m.backendPassword != "" && subtle.ConstantTimeCompare([]byte(token), []byte(m.backendPassword)) == 1 {
		return identity.NewAuthentication(identity.ServicePrincipal{Name: servicePrincipalName}), nil
	}

	if m.sessions == nil {
		return nil, errs.NewInvalidTokenError(nil)
	}

	user, err := m.sessions.Parse(token)
	if err != nil {
		if errors.Is(err, identity.ErrSessionExpired) {
			return nil, errs.NewTokenExpiredError()
		}
		return nil, errs.NewInvalidTokenError(err)
	}
	return identity.NewAuthentication(user), nil
}

func (m authMiddleware) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxGetAuthentication(r.Context()) == nil {
			m.responder.WriteError(w, errs.Unauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// CORSCheckMiddleware rejects preflight requests from origins outside the allow list
// with a JSON error instead of a bare 403.
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := false
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					allowed = true
					break
				}
			}

			if !allowed && r.Method == http.MethodOptions {
				responder := NewResponder(log.Logger)
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
