package fes

import (
	"fmt"
	"net/http"

	"fesmock/internal/ledger"
	"fesmock/internal/types"
)

// TokenClass is the kind of access token a route expects.
type TokenClass int

const (
	// FreshToken is a token obtained from the identity provider. It must not
	// be one the mock issued itself.
	FreshToken TokenClass = iota + 1
	// IssuedToken is a token previously handed out by the new-reply-token
	// route.
	IssuedToken
)

// String returns the name the FES protocol uses for the token class.
func (c TokenClass) String() string {
	switch c {
	case FreshToken:
		return "oidc"
	case IssuedToken:
		return "fes"
	default:
		return fmt.Sprintf("TokenClass(%d)", int(c))
	}
}

// Authenticator checks bearer tokens against the ledger of issued tokens.
type Authenticator struct {
	Ledger *ledger.Ledger
	Parser IdentityParser
}

// Authenticate validates the request's bearer token for the expected class
// and returns the caller's email.
//
// Errors:
//   - generic_auth_token_missing: no bearer token.
//   - generic_auth_token_reused: FreshToken expected but the token was issued
//     by the mock.
//   - 401: IssuedToken expected but the mock never issued the token.
func (a *Authenticator) Authenticate(req *Request, class TokenClass) (string, error) {
	token := req.BearerToken()
	if token == "" {
		return "", types.NewAppError(types.ErrCodeGenericAuthMissing, "Mock FES missing authorization header", nil)
	}

	switch class {
	case FreshToken:
		if a.Ledger.Contains(token) {
			return "", types.NewAppError(types.ErrCodeGenericAuthReused, "Mock FES access-token call wrongly with FES token", nil)
		}
	case IssuedToken:
		if !a.Ledger.Contains(token) {
			return "", types.NewHTTPError(http.StatusUnauthorized, "FES mock received access token it didnt issue")
		}
		// Issued tokens are opaque; the identity is the one recorded at issuance.
		if email, ok := a.Ledger.IssuedTo(token); ok && email != "" {
			return email, nil
		}
	default:
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "unknown token class "+class.String(), nil)
	}

	email, err := a.Parser.ParseEmail(token)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeGenericAuthUnparsable, "Mock FES cannot read access token", err)
	}
	return email, nil
}
