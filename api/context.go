package api

import (
	"context"

	"github.com/marcv42/blog-backend/identity"
)

type keyType string

const (
	authenticationKey keyType = "authentication"
)

// ctxWithAuthentication adds the request's authentication to the context
func ctxWithAuthentication(ctx context.Context, auth *identity.Authentication) context.Context {
	return context.WithValue(ctx, authenticationKey, auth)
}

// ctxGetAuthentication returns nil for unauthenticated requests
func ctxGetAuthentication(ctx context.Context) *identity.Authentication {
	auth, _ := ctx.Value(authenticationKey).(*identity.Authentication)
	return auth
}
