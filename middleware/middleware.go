package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/globals"
	"mingle/utils"
)

// RevocationList is consulted for tokens that were logged out before expiry.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Authenticator struct {
	tokens  *TokenService
	revoked RevocationList
	logger  *zap.Logger
}

func NewAuthenticator(tokens *TokenService, revoked RevocationList, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, revoked: revoked, logger: logger}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", apperr.Auth("Missing token")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.Auth("Invalid token format")
	}
	return strings.TrimSpace(token), nil
}

// Identify verifies the request's token and returns its claims.
func (a *Authenticator) Identify(r *http.Request) (*Claims, error) {
	tokenString, err := BearerToken(r)
	if err != nil {
		return nil, err
	}
	claims, err := a.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			return nil, apperr.Infrastructure("check token revocation", err)
		}
		if revoked {
			return nil, apperr.Auth("Token revoked")
		}
	}
	return claims, nil
}

// Authenticate rejects the request with 401 unless it carries a valid token.
func (a *Authenticator) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.Identify(r)
		if err != nil {
			utils.WriteError(w, a.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.ClaimsKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

// ClaimsFromRequest returns the claims attached by Authenticate.
func ClaimsFromRequest(r *http.Request) (*Claims, bool) {
	claims, ok := r.Context().Value(globals.ClaimsKey).(*Claims)
	return claims, ok
}
