// Package identity supplies the user id and auth token a session submits
// with. Login is handled elsewhere; this package only reads what it is
// given.
package identity

import (
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials identify the learner to the results service.
type Credentials struct {
	UserID    string
	AuthToken string
}

// HasToken reports whether a token is present.
func (c Credentials) HasToken() bool {
	return strings.TrimSpace(c.AuthToken) != ""
}

// Source supplies credentials at submission time.
type Source interface {
	Credentials() Credentials
}

// Static is a fixed set of credentials.
type Static Credentials

func (s Static) Credentials() Credentials { return Normalize(Credentials(s), time.Now()) }

// Env reads BANDPREP_USER_ID and BANDPREP_AUTH_TOKEN on every call.
type Env struct{}

func (Env) Credentials() Credentials {
	return Normalize(Credentials{
		UserID:    os.Getenv("BANDPREP_USER_ID"),
		AuthToken: os.Getenv("BANDPREP_AUTH_TOKEN"),
	}, time.Now())
}

// Normalize inspects a JWT token without verifying it. An expired token is
// dropped, and a missing user id is taken from the sub claim. Tokens that
// are not JWTs pass through unchanged.
func Normalize(c Credentials, now time.Time) Credentials {
	c.UserID = strings.TrimSpace(c.UserID)
	c.AuthToken = strings.TrimSpace(c.AuthToken)
	if c.AuthToken == "" {
		return c
	}

	claims, ok := Inspect(c.AuthToken)
	if !ok {
		return c
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		c.AuthToken = ""
	}
	if c.UserID == "" {
		c.UserID = claims.Subject
	}
	return c
}

// Inspect parses token's registered claims without checking its signature.
func Inspect(token string) (jwt.RegisteredClaims, bool) {
	var claims jwt.RegisteredClaims
	p := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := p.ParseUnverified(token, &claims); err != nil {
		return jwt.RegisteredClaims{}, false
	}
	return claims, true
}
