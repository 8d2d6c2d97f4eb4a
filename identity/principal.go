package identity

import (
	"fmt"
	"time"
)

// LoginAttribute is the OAuth2 user attribute holding the provider login.
const LoginAttribute = "login"

// Principal is the party a request was authenticated as.
type Principal interface {
	GetName() string
}

// OAuth2User is a principal authenticated through an OAuth2 identity provider. Its
// attributes are the provider's user profile, as returned by the provider.
type OAuth2User struct {
	Attributes       map[string]any
	NameAttributeKey string
}

func NewOAuth2User(attributes map[string]any, nameAttributeKey string) OAuth2User {
	if attributes == nil {
		attributes = map[string]any{}
	}
	return OAuth2User{Attributes: attributes, NameAttributeKey: nameAttributeKey}
}

func (u OAuth2User) GetName() string {
	if v, ok := u.Attributes[u.NameAttributeKey]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// Attribute returns nil when the attribute is absent.
func (u OAuth2User) Attribute(name string) any {
	return u.Attributes[name]
}

// ServicePrincipal is a trusted backend caller holding the shared backend password.
// It carries no end-user identity.
type ServicePrincipal struct {
	Name string
}

func (p ServicePrincipal) GetName() string {
	return p.Name
}

// Authentication is the result of authenticating one request.
type Authentication struct {
	Principal       Principal
	AuthenticatedAt time.Time
}

func NewAuthentication(principal Principal) *Authentication {
	return &Authentication{Principal: principal, AuthenticatedAt: time.Now()}
}
