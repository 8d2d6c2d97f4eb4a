package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken      = errors.New("missing access token")
	ErrInvalidToken      = errors.New("invalid access token")
	ErrTokenExpired      = errors.New("token expired")
	ErrInvalidOAuthState = errors.New("invalid oauth state")
	ErrAuthorUnresolved  = errors.New("author could not be resolved")
)

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Cause:      cause,
		Field:      "authorization",
	}
}

func NewTokenExpiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrTokenExpired,
		Details:    "Token has expired",
		Field:      "authorization",
	}
}

func NewInvalidOAuthStateError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidOAuthState,
		Details:    "OAuth state is missing or does not match",
		Field:      "state",
	}
}

// NewAuthorUnresolvedError reports why no author login could be taken from the
// request's authentication.
func NewAuthorUnresolvedError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrAuthorUnresolved,
		Details:    reason,
		Field:      "author",
	}
}

// Authentication & Authorization Error Type Checkers
func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsTokenExpiredError(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func IsInvalidOAuthStateError(err error) bool {
	return errors.Is(err, ErrInvalidOAuthState)
}

func IsAuthorUnresolvedError(err error) bool {
	return errors.Is(err, ErrAuthorUnresolved)
}

// NewUpstreamAuthError wraps a failure talking to the identity provider.
func NewUpstreamAuthError(provider string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Login with %s failed", provider),
		Cause:      cause,
	}
}
