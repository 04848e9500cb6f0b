package fes

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityParser extracts the caller's email address from an access token.
type IdentityParser interface {
	ParseEmail(token string) (string, error)
}

// JWTIdentityParser reads the "email" claim of a JWT without verifying its
// signature. Tokens presented to the mock are minted by the test harness, so
// there is nothing to verify them against.
type JWTIdentityParser struct {
	parser *jwt.Parser
}

// NewJWTIdentityParser creates a JWTIdentityParser.
func NewJWTIdentityParser() *JWTIdentityParser {
	return &JWTIdentityParser{parser: jwt.NewParser()}
}

// ParseEmail implements IdentityParser.
func (p *JWTIdentityParser) ParseEmail(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := p.parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parsing access token: %w", err)
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errors.New("access token has no email claim")
	}
	return email, nil
}

// NewMockJWT mints an unsigned JWT carrying the given email, in the shape the
// harness's fake identity provider hands to clients.
func NewMockJWT(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": email,
		"iss":   "https://mock.identity.provider",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return "", fmt.Errorf("signing mock token: %w", err)
	}
	return signed, nil
}
