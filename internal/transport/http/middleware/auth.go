package middleware

import (
	"context"
	"net/http"
	"strings"

	"ems/internal/domain/auth"
)

type ctxKey string

const (
	ctxKeyUser  ctxKey = "user"
	ctxKeyToken ctxKey = "token"
)

// SessionChecker reports whether the presented token still maps to a live
// session. Logout revokes the session row, which invalidates the JWT
// before it expires.
type SessionChecker interface {
	SessionValid(ctx context.Context, userID, tokenHash string) (bool, error)
}

// Auth attaches the user context when a valid bearer token is presented.
// It never rejects on its own; RequireAuth and RequireRole do that.
func Auth(secret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if sessions != nil {
				valid, err := sessions.SessionValid(r.Context(), claims.UserID, auth.HashToken(parts[1]))
				if err != nil || !valid {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, auth.UserContext{
				UserID: claims.UserID,
				Role:   claims.Role,
				Name:   claims.Name,
			})
			ctx = context.WithValue(ctx, ctxKeyToken, parts[1])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}

// GetToken returns the raw bearer token for the authenticated request.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyToken).(string)
	return token
}
