package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const attributesClaim = "attrs"

// sessionAttributes are the profile attributes copied into a session token.
var sessionAttributes = []string{LoginAttribute, "name", "email", "avatar_url"}

var ErrSessionExpired = errors.New("session expired")

// SessionManager issues and verifies HS256 session tokens for OAuth2 users.
type SessionManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSessionManager(secret, issuer string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if issuer == "" {
		issuer = "blog-backend"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &SessionManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(user OAuth2User) (string, error) {
	attrs := make(map[string]any, len(sessionAttributes))
	for _, key := range sessionAttributes {
		if v, ok := user.Attributes[key]; ok && v != nil {
			attrs[key] = v
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           user.GetName(),
		"iss":           m.issuer,
		"iat":           now.Unix(),
		"exp":           now.Add(m.ttl).Unix(),
		attributesClaim: attrs,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a session token and rebuilds the OAuth2 user it was issued for.
func (m *SessionManager) Parse(tokenString string) (OAuth2User, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return OAuth2User{}, ErrSessionExpired
		}
		return OAuth2User{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return OAuth2User{}, fmt.Errorf("invalid token claims")
	}

	attrs, ok := claims[attributesClaim].(map[string]any)
	if !ok {
		return OAuth2User{}, fmt.Errorf("token missing %s claim", attributesClaim)
	}

	return NewOAuth2User(attrs, LoginAttribute), nil
}
