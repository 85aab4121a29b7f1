// ABOUTME: JWT issuance and verification for admin bearer tokens
// ABOUTME: Uses HS256 signing with a server-held secret and a fixed 24h lifetime

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is how long an issued token stays valid. Tokens are
// stateless: once issued they remain valid until expiry, with no revocation.
const TokenLifetime = 24 * time.Hour

// MinSecretLength is the minimum signing secret size in bytes.
const MinSecretLength = 32

// Token errors. Verification deliberately collapses signature mismatch,
// malformed input, and expiry into ErrInvalidToken: callers must not
// distinguish them.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
)

// Claims is the identity encoded in a bearer token.
type Claims struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

// IsAdmin reports whether the claim set carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// Gate issues and verifies the bearer tokens guarding privileged routes.
type Gate struct {
	secret []byte
	now    func() time.Time // test hook
}

// NewGate creates a Gate with the given signing secret.
func NewGate(secret []byte) (*Gate, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &Gate{secret: secret, now: time.Now}, nil
}

// Issue signs a token for the claim set, expiring TokenLifetime from now.
func (g *Gate) Issue(claims *Claims) (string, error) {
	now := g.now()
	mc := jwt.MapClaims{
		"sub":      claims.UserID,
		"username": claims.Username,
		"email":    claims.Email,
		"role":     claims.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString(g.secret)
}

// Verify validates the signature and expiry and returns the claim set.
// Any failure is reported as ErrInvalidToken.
func (g *Gate) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	username, _ := mc["username"].(string)
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	return &Claims{
		UserID:   sub,
		Username: username,
		Email:    email,
		Role:     role,
	}, nil
}
