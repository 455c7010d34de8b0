package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"quill/internal/auth"
	domainsvc "quill/internal/domain/services"
	"quill/internal/httputil"
)

// Auth verifies the bearer token and stores its claims on the request.
// Requests without a valid token are rejected with 401.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

// RequireEditor lets only callers the authorizer accepts through. Must run
// after Auth.
func RequireEditor(authorizer domainsvc.EditorAuthorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := httputil.GetClaims(r)
			if claims == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if err := authorizer.CanEdit(r.Context(), claims); err != nil {
				logger.Warn("editor access denied", "user_id", claims.GetUserID(), "path", r.URL.Path)
				httputil.RespondError(w, http.StatusForbidden, "editor access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
