package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userIDKey is the context key for the authenticated user ID.
const userIDKey ctxKey = "userID"

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}

// setUserID stores the user ID in context.
func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// userIDFromRequest reads the authenticated user ID from a plain HTTP
// request. Used by routes that bypass huma, like the SSE stream.
func userIDFromRequest(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// authMiddleware returns a middleware that validates Bearer tokens and stores user ID in context.
// If no token is present or invalid, continues without user in context.
// Handlers use GetUserID to check authentication.
//
// A "token" query parameter is accepted as a fallback because EventSource
// cannot set request headers.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				token = authHeader[7:]
			} else if qt := r.URL.Query().Get("token"); qt != "" {
				token = qt
			}

			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, _, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				// Invalid token - continue without user (handler will reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser returns the authenticated user from context, fetching from store.
// Returns 401 if not authenticated or if the user no longer exists.
func (s *Server) RequireUser(ctx context.Context) (*domain.User, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	return user, nil
}
