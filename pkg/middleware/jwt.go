package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkpress/pkg/auth"
	"github.com/inkpress/pkg/endpoint"
	"github.com/inkpress/pkg/portal"
)

type jwtContextKey string

const JWTClaimsKey jwtContextKey = "jwt.claims"

// AuthorFinder confirms that the login carried by a token still exists.
type AuthorFinder interface {
	Exists(login string) bool
}

type SessionMiddleware struct {
	JWT        auth.JWTHandler
	Authors    AuthorFinder
	CookieName string
}

// Handle resolves the current author from the session cookie, falling back to
// an Authorization bearer token. Invalid tokens are ignored so public pages
// keep working with a stale cookie.
func (m SessionMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		token := m.token(r)
		if token == "" {
			return next(w, r)
		}

		claims, err := m.JWT.Validate(token)
		if err != nil {
			slog.Debug("Ignoring session token", "error", err)

			return next(w, r)
		}

		if m.Authors != nil && !m.Authors.Exists(claims.Login) {
			slog.WarnContext(r.Context(), "Session token names an unknown author", "login", claims.Login)

			return next(w, r)
		}

		ctx := context.WithValue(r.Context(), JWTClaimsKey, claims)
		ctx = context.WithValue(ctx, portal.AuthAccountNameKey, claims.Login)

		return next(w, r.WithContext(ctx))
	}
}

func (m SessionMiddleware) token(r *http.Request) string {
	if m.CookieName != "" {
		if cookie, err := r.Cookie(m.CookieName); err == nil {
			if value := strings.TrimSpace(cookie.Value); value != "" {
				return value
			}
		}
	}

	header := strings.TrimSpace(r.Header.Get(portal.AuthorizationHeader))
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}

	return ""
}

// RequireAuth rejects anonymous requests. It must run after SessionMiddleware.
func RequireAuth(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
		if _, ok := CurrentLogin(r.Context()); !ok {
			return endpoint.UnauthorisedError("login required")
		}

		return next(w, r)
	}
}

func GetJWTClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(JWTClaimsKey).(*auth.Claims)
	return claims, ok
}

// CurrentLogin returns the authenticated author login, if any.
func CurrentLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(portal.AuthAccountNameKey).(string)
	if !ok || login == "" {
		return "", false
	}

	return login, true
}
